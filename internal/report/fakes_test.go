package report

import (
	"context"
	"errors"
	"image"
	"sync"
	"time"

	"github.com/emiliopalmerini/mreport/internal/domain"
	"github.com/emiliopalmerini/mreport/internal/ports"
)

// mockCardClient is a configurable ports.CardClient.
type mockCardClient struct {
	mu sync.Mutex

	CreateCardFunc  func(ctx context.Context, title, description, listID string) (domain.RemoteCard, error)
	AttachImageFunc func(ctx context.Context, cardID string, png []byte) error

	createCalls []createCall
	attachCalls []attachCall
}

type createCall struct {
	Title       string
	Description string
	ListID      string
}

type attachCall struct {
	CardID string
	PNG    []byte
}

func (m *mockCardClient) CreateCard(ctx context.Context, title, description, listID string) (domain.RemoteCard, error) {
	m.mu.Lock()
	m.createCalls = append(m.createCalls, createCall{title, description, listID})
	m.mu.Unlock()
	if m.CreateCardFunc != nil {
		return m.CreateCardFunc(ctx, title, description, listID)
	}
	return domain.RemoteCard{ID: "abc123"}, nil
}

func (m *mockCardClient) AttachImage(ctx context.Context, cardID string, png []byte) error {
	m.mu.Lock()
	m.attachCalls = append(m.attachCalls, attachCall{cardID, png})
	m.mu.Unlock()
	if m.AttachImageFunc != nil {
		return m.AttachImageFunc(ctx, cardID, png)
	}
	return nil
}

func (m *mockCardClient) creates() []createCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]createCall(nil), m.createCalls...)
}

func (m *mockCardClient) attaches() []attachCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]attachCall(nil), m.attachCalls...)
}

// recordingCapturer logs the order of capture calls.
type recordingCapturer struct {
	mu      sync.Mutex
	calls   []string
	err     error
	onFrame func()
}

func (r *recordingCapturer) HideChrome() { r.log("hide") }
func (r *recordingCapturer) ShowChrome() { r.log("show") }

func (r *recordingCapturer) CaptureNextFrame(ctx context.Context) (image.Image, error) {
	r.log("capture")
	if r.onFrame != nil {
		r.onFrame()
	}
	if r.err != nil {
		return nil, r.err
	}
	return image.NewRGBA(image.Rect(0, 0, 2, 2)), nil
}

func (r *recordingCapturer) log(call string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call)
}

func (r *recordingCapturer) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

type fakeEncoder struct {
	err error
}

func (f fakeEncoder) EncodePNG(img image.Image) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []byte("png-bytes"), nil
}

// stepClock returns a time that advances one minute per call.
type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func (s *stepClock) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.now
	s.now = s.now.Add(time.Minute)
	return t
}

type memoryRepository struct {
	mu          sync.Mutex
	submissions []*domain.Submission
	err         error
}

func (m *memoryRepository) Create(ctx context.Context, s *domain.Submission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.submissions = append(m.submissions, s)
	return nil
}

func (m *memoryRepository) GetByID(ctx context.Context, id string) (*domain.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.submissions {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, nil
}

func (m *memoryRepository) List(ctx context.Context, opts ports.ListSubmissionsOptions) ([]*domain.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*domain.Submission(nil), m.submissions...), nil
}

func (m *memoryRepository) DeleteBefore(ctx context.Context, before time.Time) (int64, error) {
	return 0, errors.New("not implemented")
}

type memoryMetrics struct {
	mu       sync.Mutex
	exported []ports.SubmissionMetrics
}

func (m *memoryMetrics) ExportSubmission(ctx context.Context, s *ports.SubmissionMetrics) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.exported = append(m.exported, *s)
	return nil
}

func (m *memoryMetrics) Close(ctx context.Context) error { return nil }
