package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/homequote/homequote/internal/client/models"
)

const basePath = "/api"

// RESTClient is the production Client over HTTP/JSON.
//
// The token field is guarded by a mutex: login completions and the
// unauthorized hook may touch it from different goroutines.
type RESTClient struct {
	baseURL string
	http    *http.Client

	mu    sync.Mutex
	token string

	onUnauthorized func()
}

// NewRESTClient builds a client for the API at baseURL (scheme://host[:port],
// without the /api suffix). timeout applies per request.
func NewRESTClient(baseURL string, timeout time.Duration) *RESTClient {
	return &RESTClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// OnUnauthorized registers a hook fired when an authenticated call comes
// back 401. The hook runs once per failing call, before the error is
// returned.
func (c *RESTClient) OnUnauthorized(fn func()) {
	c.onUnauthorized = fn
}

func (c *RESTClient) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *RESTClient) ClearToken() {
	c.SetToken("")
}

func (c *RESTClient) currentToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// apiError is the error body shape the server uses for all non-2xx replies.
type apiError struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}

// doRequest performs one HTTP round trip and decodes the response into out
// (when non-nil). Non-2xx statuses are mapped onto the client error
// taxonomy; transport failures are wrapped as ErrNetwork.
func (c *RESTClient) doRequest(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+basePath+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	token := c.currentToken()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %v", ErrNetwork, err)
	}

	if resp.StatusCode >= 400 {
		return c.mapError(resp.StatusCode, respBody, token != "")
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// mapError converts an HTTP error status into the client taxonomy.
//
// A 401 means different things depending on whether the request carried a
// token: with one, the previously valid credential has been invalidated
// (session expired); without one, the presented credentials were refused.
func (c *RESTClient) mapError(status int, body []byte, authenticated bool) error {
	var ae apiError
	_ = json.Unmarshal(body, &ae)

	switch {
	case status == http.StatusUnauthorized && authenticated:
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return ErrSessionExpired
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return &AuthRejectedError{Detail: ae.Message}
	case status == http.StatusBadRequest || status == http.StatusConflict ||
		status == http.StatusUnprocessableEntity:
		return &ValidationError{Detail: ae.Message, Fields: ae.Errors}
	case status >= 500:
		return fmt.Errorf("%w: server returned %d", ErrNetwork, status)
	default:
		if ae.Message != "" {
			return fmt.Errorf("api error: %s", ae.Message)
		}
		return fmt.Errorf("api error: status %d", status)
	}
}

func (c *RESTClient) get(ctx context.Context, path string, out any) error {
	return c.doRequest(ctx, http.MethodGet, path, nil, out)
}

func (c *RESTClient) post(ctx context.Context, path string, body, out any) error {
	return c.doRequest(ctx, http.MethodPost, path, body, out)
}

func (c *RESTClient) patch(ctx context.Context, path string, body, out any) error {
	return c.doRequest(ctx, http.MethodPatch, path, body, out)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// authResponse is the body of successful login/register calls.
type authResponse struct {
	Token string         `json:"token"`
	User  models.Session `json:"user"`
}

func (c *RESTClient) Login(ctx context.Context, email, password string) (*models.Session, string, error) {
	var resp authResponse
	if err := c.post(ctx, "/auth/login", loginRequest{Email: email, Password: password}, &resp); err != nil {
		return nil, "", err
	}
	return &resp.User, resp.Token, nil
}

func (c *RESTClient) Register(ctx context.Context, req RegisterRequest) (*models.Session, string, error) {
	var resp authResponse
	if err := c.post(ctx, "/auth/register", req, &resp); err != nil {
		return nil, "", err
	}
	return &resp.User, resp.Token, nil
}

func (c *RESTClient) Me(ctx context.Context) (*models.Session, error) {
	var s models.Session
	if err := c.get(ctx, "/auth/me", &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *RESTClient) Logout(ctx context.Context) error {
	return c.post(ctx, "/auth/logout", nil, nil)
}

func (c *RESTClient) AcceptConsent(ctx context.Context) (*models.Session, error) {
	var s models.Session
	if err := c.post(ctx, "/auth/consent", nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *RESTClient) UpdateProfile(ctx context.Context, req ProfileUpdate) (*models.Session, error) {
	var s models.Session
	if err := c.patch(ctx, "/auth/profile", req, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *RESTClient) ListQuotes(ctx context.Context) ([]models.Quote, error) {
	var quotes []models.Quote
	if err := c.get(ctx, "/quotes", &quotes); err != nil {
		return nil, err
	}
	return quotes, nil
}

func (c *RESTClient) ListInspections(ctx context.Context) ([]models.Inspection, error) {
	var inspections []models.Inspection
	if err := c.get(ctx, "/inspections", &inspections); err != nil {
		return nil, err
	}
	return inspections, nil
}

func (c *RESTClient) ListConversations(ctx context.Context) ([]models.Conversation, error) {
	var conversations []models.Conversation
	if err := c.get(ctx, "/conversations", &conversations); err != nil {
		return nil, err
	}
	return conversations, nil
}

func (c *RESTClient) ListMessages(ctx context.Context, conversationID string) ([]models.Message, error) {
	var messages []models.Message
	if err := c.get(ctx, "/conversations/"+conversationID+"/messages", &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

type sendMessageRequest struct {
	Text string `json:"text"`
}

func (c *RESTClient) SendMessage(ctx context.Context, conversationID, text string) (*models.Message, error) {
	var m models.Message
	if err := c.post(ctx, "/conversations/"+conversationID+"/messages", sendMessageRequest{Text: text}, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *RESTClient) ListTimeSlots(ctx context.Context) ([]models.TimeSlot, error) {
	var slots []models.TimeSlot
	if err := c.get(ctx, "/timeslots", &slots); err != nil {
		return nil, err
	}
	return slots, nil
}

func (c *RESTClient) AcceptTimeSlot(ctx context.Context, slotID string) error {
	return c.post(ctx, "/timeslots/"+slotID+"/accept", nil, nil)
}

type registerDeviceRequest struct {
	DeviceID string `json:"device_id"`
	Platform string `json:"platform"`
}

func (c *RESTClient) RegisterDevice(ctx context.Context, deviceID string) error {
	return c.post(ctx, "/devices", registerDeviceRequest{DeviceID: deviceID, Platform: "cli"}, nil)
}

var _ Client = (*RESTClient)(nil)
