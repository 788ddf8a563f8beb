package trello

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"sync"

	"github.com/emiliopalmerini/mreport/internal/domain"
)

// DefaultBaseURL is the root of the public Trello REST API.
const DefaultBaseURL = "https://api.trello.com/1"

const (
	opCreateCard  = "create card"
	opAttachImage = "attach image"

	screenshotFilename    = "screenshot.png"
	screenshotContentType = "image/png"

	// maxResponseBody caps how much of a response is read into memory.
	maxResponseBody = 1 << 20
)

// Config holds configuration for creating a Client.
type Config struct {
	// BaseURL is the root URL for API requests. Defaults to DefaultBaseURL.
	BaseURL string

	// HTTPClient is used for all requests. Defaults to http.DefaultClient.
	HTTPClient *http.Client

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Client talks to the card and attachment endpoints of the board API.
// Credentials are supplied once through Initialize and read by every call.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger

	mu          sync.RWMutex
	credentials domain.Credentials
}

// NewClient creates a client. Call Initialize before issuing requests.
func NewClient(config Config) *Client {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}
}

// Initialize sets the credentials used by every request. Empty values are
// ignored and leave the client as it was.
func (c *Client) Initialize(credentials domain.Credentials) {
	if !credentials.Complete() {
		c.logger.Debug("ignoring incomplete trello credentials")
		return
	}
	c.mu.Lock()
	c.credentials = credentials
	c.mu.Unlock()
}

// Initialized reports whether credentials have been set.
func (c *Client) Initialized() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.credentials.Complete()
}

func (c *Client) creds(op string) (domain.Credentials, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.credentials.Complete() {
		return domain.Credentials{}, &domain.RequestError{Op: op, Message: "client not initialized"}
	}
	return c.credentials, nil
}

// CreateCard files a card under listID. The response must carry the new
// card's id; a 2xx response without one is a *domain.ResponseParseError.
func (c *Client) CreateCard(ctx context.Context, title, description, listID string) (domain.RemoteCard, error) {
	creds, err := c.creds(opCreateCard)
	if err != nil {
		return domain.RemoteCard{}, err
	}

	form := url.Values{}
	form.Set("name", title)
	form.Set("desc", description)
	form.Set("idList", listID)
	form.Set("keepFromSource", "all")
	form.Set("key", creds.APIKey)
	form.Set("token", creds.Token)

	body, err := c.post(ctx, opCreateCard, "/cards", "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	if err != nil {
		return domain.RemoteCard{}, err
	}

	var card domain.RemoteCard
	if err := json.Unmarshal(body, &card); err != nil {
		return domain.RemoteCard{}, &domain.ResponseParseError{Body: snippet(body), Err: err}
	}
	if card.ID == "" {
		return domain.RemoteCard{}, &domain.ResponseParseError{Body: snippet(body)}
	}

	c.logger.Debug("trello card created", "card_id", card.ID, "list_id", listID)
	return card, nil
}

// AttachImage uploads png to the card's attachments as screenshot.png.
func (c *Client) AttachImage(ctx context.Context, cardID string, png []byte) error {
	creds, err := c.creds(opAttachImage)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, screenshotFilename))
	header.Set("Content-Type", screenshotContentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		return fmt.Errorf("failed to create file part: %w", err)
	}
	if _, err := part.Write(png); err != nil {
		return fmt.Errorf("failed to write file part: %w", err)
	}
	if err := writer.WriteField("key", creds.APIKey); err != nil {
		return fmt.Errorf("failed to write key field: %w", err)
	}
	if err := writer.WriteField("token", creds.Token); err != nil {
		return fmt.Errorf("failed to write token field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close multipart body: %w", err)
	}

	path := "/cards/" + url.PathEscape(cardID) + "/attachments"
	if _, err := c.post(ctx, opAttachImage, path, writer.FormDataContentType(), &buf); err != nil {
		return err
	}

	c.logger.Debug("trello screenshot attached", "card_id", cardID, "bytes", len(png))
	return nil
}

// post sends a POST request and returns the body of a 2xx response. Any
// other outcome is a *domain.RequestError.
func (c *Client) post(ctx context.Context, op, path, contentType string, body io.Reader) ([]byte, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return nil, &domain.RequestError{Op: op, Message: err.Error(), Err: err}
	}
	request.Header.Set("Content-Type", contentType)
	request.Header.Set("Accept", "application/json")

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, &domain.RequestError{Op: op, Message: err.Error(), Err: err}
	}
	defer func() { _ = response.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(response.Body, maxResponseBody))
	if err != nil {
		return nil, &domain.RequestError{Op: op, StatusCode: response.StatusCode, Message: "failed to read response body", Err: err}
	}

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		message := strings.TrimSpace(string(data))
		if message == "" {
			message = http.StatusText(response.StatusCode)
		}
		return nil, &domain.RequestError{Op: op, StatusCode: response.StatusCode, Message: snippet([]byte(message))}
	}

	return data, nil
}

func snippet(body []byte) string {
	const limit = 200
	if len(body) <= limit {
		return string(body)
	}
	return string(body[:limit]) + "..."
}
