package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/serenvoice/serenvoice-cli/internal/client/models"
	"github.com/serenvoice/serenvoice-cli/internal/client/tokenstore"
	"github.com/serenvoice/serenvoice-cli/internal/common"
	"github.com/serenvoice/serenvoice-cli/internal/logging"
)

const (
	defaultRequestTimeout = 15 * time.Second
	defaultUploadTimeout  = 2 * time.Minute
)

// RestClient implements Client over HTTP/JSON.
type RestClient struct {
	baseURL        string
	requestTimeout time.Duration
	uploadTimeout  time.Duration

	httpClient *http.Client
	store      *tokenstore.Store
	log        logging.Logger

	// refreshMu serializes the refresh call so two goroutines cannot
	// race the token write. Requests waiting on it still perform their
	// own refresh afterwards; there is no single-flight queueing.
	refreshMu sync.Mutex
}

// NewRestClient builds a client for the API at baseURL. Zero timeouts
// fall back to the defaults.
func NewRestClient(baseURL string, requestTimeout, uploadTimeout time.Duration, store *tokenstore.Store, log logging.Logger) *RestClient {
	if requestTimeout <= 0 {
		requestTimeout = defaultRequestTimeout
	}
	if uploadTimeout <= 0 {
		uploadTimeout = defaultUploadTimeout
	}
	return &RestClient{
		baseURL:        strings.TrimRight(baseURL, "/"),
		requestTimeout: requestTimeout,
		uploadTimeout:  uploadTimeout,
		httpClient:     &http.Client{},
		store:          store,
		log:            log.With("component", "api"),
	}
}

// call describes one logical request. The body factory is invoked per
// physical attempt so a replay after refresh gets a fresh reader.
type call struct {
	method      string
	path        string
	contentType string
	body        func() (io.Reader, error)
	timeout     time.Duration
}

func jsonCall(method, path string, payload any) call {
	return call{
		method:      method,
		path:        path,
		contentType: "application/json",
		body: func() (io.Reader, error) {
			data, err := json.Marshal(payload)
			if err != nil {
				return nil, err
			}
			return bytes.NewReader(data), nil
		},
	}
}

func getCall(path string) call {
	return call{method: http.MethodGet, path: path}
}

// send performs one physical attempt with the given bearer token and
// decodes a 2xx body into out. The returned status is zero on transport
// errors.
func (c *RestClient) send(ctx context.Context, cl call, bearer string, out any) (int, error) {
	timeout := cl.timeout
	if timeout <= 0 {
		timeout = c.requestTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var body io.Reader
	if cl.body != nil {
		var err error
		if body, err = cl.body(); err != nil {
			return 0, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, c.baseURL+cl.path, body)
	if err != nil {
		return 0, err
	}
	if cl.contentType != "" {
		req.Header.Set("Content-Type", cl.contentType)
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("calling %s %s: %w", cl.method, cl.path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("reading response of %s: %w", cl.path, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return resp.StatusCode, statusError(resp.StatusCode, serverMessage(data))
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return resp.StatusCode, fmt.Errorf("decoding response of %s: %w", cl.path, err)
		}
	}
	return resp.StatusCode, nil
}

// do runs a logical request: bearer injection, then at most one
// refresh-and-replay when the first attempt comes back unauthorized.
// A failed refresh voids the session (the store is cleared) and the
// original authorization error is propagated.
func (c *RestClient) do(ctx context.Context, cl call, out any) error {
	status, err := c.send(ctx, cl, c.store.AccessToken(ctx), out)
	if err == nil || status != http.StatusUnauthorized {
		return err
	}

	refreshToken := c.store.RefreshToken(ctx)
	if refreshToken == "" {
		return err
	}

	newToken, refreshErr := c.refreshAccessToken(ctx, refreshToken)
	if refreshErr != nil {
		c.log.Warn(ctx, "token refresh failed, voiding session", "error", refreshErr)
		c.store.ClearAll(ctx)
		// Still matches the original unauthorized error; the session
		// sentinel marks that the stored credentials are gone.
		return fmt.Errorf("%w: %w", common.ErrSessionExpired, err)
	}

	_, replayErr := c.send(ctx, cl, newToken, out)
	return replayErr
}

// refreshAccessToken trades the refresh token (sent as the bearer
// credential) for a new access token and persists it.
func (c *RestClient) refreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	var res struct {
		Token string `json:"token"`
	}
	cl := call{method: http.MethodPost, path: "/auth/refresh"}
	if _, err := c.send(ctx, cl, refreshToken, &res); err != nil {
		return "", err
	}
	if res.Token == "" {
		return "", fmt.Errorf("refresh response carries no token: %w", common.ErrUnauthorized)
	}

	c.store.SetAccessToken(ctx, res.Token)
	return res.Token, nil
}

func (c *RestClient) Login(ctx context.Context, email, password string) (*models.LoginResult, error) {
	payload := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{Email: email, Password: password}

	var res struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		models.LoginResult
	}
	if err := c.do(ctx, jsonCall(http.MethodPost, "/auth/login", payload), &res); err != nil {
		return nil, err
	}
	if !res.Success || res.Token == "" {
		return nil, statusError(http.StatusUnauthorized, res.Message)
	}
	return &res.LoginResult, nil
}

func (c *RestClient) Register(ctx context.Context, reg models.Registration) error {
	var res struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := c.do(ctx, jsonCall(http.MethodPost, "/auth/register", reg), &res); err != nil {
		return err
	}
	if !res.Success {
		return statusError(http.StatusBadRequest, res.Message)
	}
	return nil
}

func (c *RestClient) Logout(ctx context.Context, sessionID string) error {
	payload := struct {
		SessionID string `json:"session_id"`
	}{SessionID: sessionID}
	return c.do(ctx, jsonCall(http.MethodPost, "/auth/logout", payload), nil)
}

func (c *RestClient) Groups(ctx context.Context) ([]models.Group, error) {
	var groups []models.Group
	if err := c.do(ctx, getCall("/groups"), &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

func (c *RestClient) GroupMembers(ctx context.Context, groupID int) ([]models.Member, error) {
	var members []models.Member
	if err := c.do(ctx, getCall(fmt.Sprintf("/groups/%d/members", groupID)), &members); err != nil {
		return nil, err
	}
	return members, nil
}

func (c *RestClient) Activities(ctx context.Context) ([]models.Activity, error) {
	var activities []models.Activity
	if err := c.do(ctx, getCall("/activities"), &activities); err != nil {
		return nil, err
	}
	return activities, nil
}

func (c *RestClient) SubmitRecording(ctx context.Context, path, note string) (*models.VoiceAnalysis, error) {
	// The multipart document is assembled up front so a replay after a
	// token refresh reuses identical bytes. The multipart writer picks
	// the boundary; we never hand-set it.
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("audio", filepath.Base(path))
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening recording: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("reading recording: %w", err)
	}
	_ = f.Close()

	if note != "" {
		if err := w.WriteField("note", note); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	payload := buf.Bytes()
	cl := call{
		method:      http.MethodPost,
		path:        "/voice/analyses",
		contentType: w.FormDataContentType(),
		body: func() (io.Reader, error) {
			return bytes.NewReader(payload), nil
		},
		timeout: c.uploadTimeout,
	}

	var analysis models.VoiceAnalysis
	if err := c.do(ctx, cl, &analysis); err != nil {
		return nil, err
	}
	return &analysis, nil
}

func (c *RestClient) Analysis(ctx context.Context, id string) (*models.VoiceAnalysis, error) {
	var analysis models.VoiceAnalysis
	if err := c.do(ctx, getCall("/voice/analyses/"+id), &analysis); err != nil {
		return nil, err
	}
	return &analysis, nil
}

func (c *RestClient) Recommendations(ctx context.Context) ([]models.Recommendation, error) {
	var recs []models.Recommendation
	if err := c.do(ctx, getCall("/recommendations"), &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

func (c *RestClient) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}
