package report

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/emiliopalmerini/mreport/internal/domain"
	"github.com/emiliopalmerini/mreport/internal/ports"
)

// Controller owns a single report draft and drives it through the
// submission lifecycle. Submit blocks its caller while network calls and
// the screenshot capture run; the state lock is never held across them, so
// other goroutines can keep reading the form and are refused with
// domain.ErrBusy if they try to change it.
type Controller struct {
	categories map[domain.Category]domain.CategorySpec
	timeout    time.Duration
	visibility VisibilityMode

	client   ports.CardClient
	capturer ports.FrameCapturer
	encoder  ports.ImageEncoder
	version  ports.VersionSource
	clock    ports.Clock
	repo     ports.SubmissionRepository
	metrics  ports.MetricsExporter
	logger   *slog.Logger
	onClose  func()

	mu           sync.Mutex
	state        domain.FormState
	draft        domain.Draft
	status       domain.SubmissionResult
	hasStatus    bool
	chromeHidden bool
	subscribers  []subscriber
	nextSubID    int
}

// New creates a controller in the Idle state with the Bug category selected.
func New(config Config, client ports.CardClient, opts ...Option) (*Controller, error) {
	if client == nil {
		return nil, errors.New("report: card client is required")
	}
	categories := make(map[domain.Category]domain.CategorySpec, len(domain.Categories))
	for _, category := range domain.Categories {
		spec, ok := config.Categories[category]
		if !ok || spec.ListID == "" {
			return nil, fmt.Errorf("report: no list configured for category %s", category)
		}
		if spec.Placeholder.Title == "" {
			spec.Placeholder.Title = domain.DefaultTitlePlaceholder(category)
		}
		categories[category] = spec
	}

	timeout := config.RequestTimeout
	if timeout == 0 {
		timeout = DefaultRequestTimeout
	}

	c := &Controller{
		categories: categories,
		timeout:    timeout,
		visibility: config.Visibility,
		client:     client,
		version:    ports.StaticVersion("dev"),
		clock:      ports.SystemClock{},
		logger:     slog.Default(),
		state:      domain.StateIdle,
		draft:      domain.Draft{Category: domain.CategoryBug},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Subscribe registers fn for every event. Events are delivered on the
// goroutine that caused the change, after the state lock is released.
// The returned function removes the subscription.
func (c *Controller) Subscribe(fn func(Event)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextSubID++
	id := c.nextSubID
	c.subscribers = append(c.subscribers, subscriber{id: id, fn: fn})
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		for i, s := range c.subscribers {
			if s.id == id {
				c.subscribers = append(c.subscribers[:i], c.subscribers[i+1:]...)
				return
			}
		}
	}
}

// Show opens the form for editing and clears any previous status message.
func (c *Controller) Show() error {
	c.mu.Lock()
	if c.state.InFlight() {
		c.mu.Unlock()
		return domain.ErrBusy
	}
	var kinds []EventKind
	if c.hasStatus {
		c.status, c.hasStatus = domain.SubmissionResult{}, false
		kinds = append(kinds, EventStatusChanged)
	}
	if c.state == domain.StateIdle {
		c.state = domain.StateEditing
		kinds = append(kinds, EventStateChanged, EventVisibilityChanged)
	}
	c.unlockAndEmit(kinds...)
	return nil
}

// SelectCategory switches the destination list and placeholders.
func (c *Controller) SelectCategory(category domain.Category) error {
	if !category.Valid() {
		return domain.ErrUnknownCategory
	}
	return c.edit(func(d *domain.Draft) { d.Category = category })
}

// SetTitle replaces the draft title.
func (c *Controller) SetTitle(title string) error {
	return c.edit(func(d *domain.Draft) { d.Title = title })
}

// SetIncludeScreenshot toggles whether a screenshot is attached on submit.
func (c *Controller) SetIncludeScreenshot(include bool) error {
	return c.edit(func(d *domain.Draft) { d.IncludeScreenshot = include })
}

// UpdateDescription stores text cut to the first 500 characters and
// returns what was stored.
func (c *Controller) UpdateDescription(text string) (string, error) {
	text = domain.TruncateDescription(text)
	if err := c.edit(func(d *domain.Draft) { d.Description = text }); err != nil {
		return "", err
	}
	return text, nil
}

// Fill sets category, title, description and screenshot flag in one call
// for hosts that receive a complete report at once. It reports whether the
// description was truncated.
func (c *Controller) Fill(category domain.Category, title, description string, screenshot bool) (bool, error) {
	if err := c.SelectCategory(category); err != nil {
		return false, err
	}
	if err := c.SetTitle(title); err != nil {
		return false, err
	}
	stored, err := c.UpdateDescription(description)
	if err != nil {
		return false, err
	}
	return stored != description, c.SetIncludeScreenshot(screenshot)
}

// Cancel clears the draft and status and closes the form. It does nothing
// when the form is already closed.
func (c *Controller) Cancel() error {
	c.mu.Lock()
	if c.state.InFlight() {
		c.mu.Unlock()
		return domain.ErrBusy
	}
	if c.state == domain.StateIdle {
		c.mu.Unlock()
		return nil
	}
	c.draft = c.draft.Cleared()
	c.status, c.hasStatus = domain.SubmissionResult{}, false
	c.state = domain.StateIdle
	onClose := c.onClose
	c.unlockAndEmit(EventDraftChanged, EventStatusChanged, EventStateChanged, EventVisibilityChanged, EventCloseRequested)

	if onClose != nil {
		onClose()
	}
	return nil
}

// State returns the current lifecycle state.
func (c *Controller) State() domain.FormState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Draft returns a copy of the current draft.
func (c *Controller) Draft() domain.Draft {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// Status returns the last submission result, if one is being shown.
func (c *Controller) Status() (domain.SubmissionResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status, c.hasStatus
}

// SelectedListID returns the list the draft will be filed under.
func (c *Controller) SelectedListID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.categories[c.draft.Category].ListID
}

// Placeholder returns the hints for the selected category.
func (c *Controller) Placeholder() domain.Placeholder {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.categories[c.draft.Category].Placeholder
}

// IsSelected reports whether category is the selected one.
func (c *Controller) IsSelected(category domain.Category) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft.Category == category
}

// CharCount returns the description length indicator, e.g. "42/500".
func (c *Controller) CharCount() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return domain.CharCount(c.draft.Description)
}

// Visibility returns how the form should be drawn right now.
func (c *Controller) Visibility() Visibility {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.visibilityLocked()
}

func (c *Controller) visibilityLocked() Visibility {
	shown := c.state != domain.StateIdle && !c.chromeHidden
	v := Visibility{
		Mode:         c.visibility,
		Shown:        shown,
		Interactable: shown && c.state == domain.StateEditing,
	}
	if shown {
		v.Opacity = 1
	}
	return v
}

// edit applies fn to the draft when the form accepts input.
func (c *Controller) edit(fn func(*domain.Draft)) error {
	c.mu.Lock()
	if err := c.editableLocked(); err != nil {
		c.mu.Unlock()
		return err
	}
	fn(&c.draft)
	c.unlockAndEmit(EventDraftChanged)
	return nil
}

func (c *Controller) editableLocked() error {
	switch {
	case c.state.InFlight():
		return domain.ErrBusy
	case c.state != domain.StateEditing:
		return domain.ErrNotEditing
	}
	return nil
}

// unlockAndEmit snapshots the form, releases the lock and notifies
// subscribers once per kind. Must be called with c.mu held.
func (c *Controller) unlockAndEmit(kinds ...EventKind) {
	if len(kinds) == 0 {
		c.mu.Unlock()
		return
	}
	snapshot := Event{
		State:      c.state,
		Draft:      c.draft,
		Status:     c.status,
		HasStatus:  c.hasStatus,
		Visibility: c.visibilityLocked(),
	}
	subs := make([]subscriber, len(c.subscribers))
	copy(subs, c.subscribers)
	c.mu.Unlock()

	for _, kind := range kinds {
		event := snapshot
		event.Kind = kind
		for _, s := range subs {
			s.fn(event)
		}
	}
}
