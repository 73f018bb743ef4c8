package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/krsnavtr-code/Pass-Manager/internal/common"
)

type HTTPClient struct {
	baseURL string
	http    *http.Client

	mu          sync.RWMutex
	accessToken string
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (s *HTTPClient) token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

func (s *HTTPClient) setToken(t string) {
	s.mu.Lock()
	s.accessToken = t
	s.mu.Unlock()
}

// do sends in as JSON (when non-nil) and decodes a 2xx body into out (when
// non-nil). Everything else becomes an *APIError or wraps ErrUnavailable.
func (s *HTTPClient) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}

	target := s.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if t := s.token(); t != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+t)
	}

	resp, err := s.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var msg struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(raw, &msg) == nil {
			apiErr.Message = msg.Message
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (s *HTTPClient) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	var resp AuthResult
	if err := s.do(ctx, http.MethodPost, "/auth/register", nil, in, &resp); err != nil {
		return nil, err
	}
	s.setToken(resp.Token)
	return &resp, nil
}

func (s *HTTPClient) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	req := map[string]string{"email": email, "password": password}

	var resp AuthResult
	if err := s.do(ctx, http.MethodPost, "/auth/login", nil, req, &resp); err != nil {
		return nil, err
	}
	s.setToken(resp.Token)
	return &resp, nil
}

// Logout forgets the bearer token. The server keeps no logout state.
func (s *HTTPClient) Logout() {
	s.setToken("")
}

func (s *HTTPClient) LoggedIn() bool {
	return s.token() != ""
}

func (s *HTTPClient) VerifyMaster(ctx context.Context, masterPassword string) error {
	return s.do(ctx, http.MethodPost, "/auth/verify-master", nil, map[string]string{"masterPassword": masterPassword}, nil)
}

func (s *HTTPClient) Session(ctx context.Context) (*SessionInfo, error) {
	var resp struct {
		Data struct {
			Session struct {
				ID            string    `json:"id"`
				LoginTime     time.Time `json:"loginTime"`
				ExpiryTime    time.Time `json:"expiryTime"`
				TimeRemaining int64     `json:"timeRemaining"`
			} `json:"session"`
		} `json:"data"`
	}
	if err := s.do(ctx, http.MethodGet, "/auth/session", nil, nil, &resp); err != nil {
		return nil, err
	}

	ss := resp.Data.Session
	return &SessionInfo{
		ID:            ss.ID,
		LoginTime:     ss.LoginTime,
		ExpiryTime:    ss.ExpiryTime,
		TimeRemaining: time.Duration(ss.TimeRemaining) * time.Millisecond,
	}, nil
}

func (s *HTTPClient) Profile(ctx context.Context) (*Profile, error) {
	var resp struct {
		Data struct {
			User Profile `json:"user"`
		} `json:"data"`
	}
	if err := s.do(ctx, http.MethodGet, "/auth/profile", nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Data.User, nil
}

func (s *HTTPClient) ListPasswords(ctx context.Context, category, search string) ([]*Entry, error) {
	query := url.Values{}
	if category != "" {
		query.Set("category", category)
	}
	if search != "" {
		query.Set("search", search)
	}

	var resp struct {
		Passwords []*Entry `json:"passwords"`
	}
	if err := s.do(ctx, http.MethodGet, "/passwords", query, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Passwords, nil
}

type entryEnvelope struct {
	Password *Entry `json:"password"`
}

func (s *HTTPClient) CreatePassword(ctx context.Context, in CreateEntry) (*Entry, error) {
	var resp entryEnvelope
	if err := s.do(ctx, http.MethodPost, "/passwords", nil, in, &resp); err != nil {
		return nil, err
	}
	return resp.Password, nil
}

func (s *HTTPClient) GetPassword(ctx context.Context, id string) (*Entry, error) {
	var resp entryEnvelope
	if err := s.do(ctx, http.MethodGet, "/passwords/"+url.PathEscape(id), nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Password, nil
}

func (s *HTTPClient) UpdatePassword(ctx context.Context, id string, in UpdateEntry) (*Entry, error) {
	var resp entryEnvelope
	if err := s.do(ctx, http.MethodPut, "/passwords/"+url.PathEscape(id), nil, in, &resp); err != nil {
		return nil, err
	}
	return resp.Password, nil
}

func (s *HTTPClient) DeletePassword(ctx context.Context, id string) error {
	return s.do(ctx, http.MethodDelete, "/passwords/"+url.PathEscape(id), nil, nil, nil)
}

func (s *HTTPClient) DecryptPassword(ctx context.Context, id, masterPassword string) (string, error) {
	var resp struct {
		Password string `json:"password"`
	}
	path := "/passwords/" + url.PathEscape(id) + "/decrypt"
	if err := s.do(ctx, http.MethodPost, path, nil, map[string]string{"masterPassword": masterPassword}, &resp); err != nil {
		return "", err
	}
	return resp.Password, nil
}

func (s *HTTPClient) Export(ctx context.Context) (*ExportInfo, error) {
	var resp ExportInfo
	if err := s.do(ctx, http.MethodPost, "/passwords/export", nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Ping calls the health endpoint.
func (s *HTTPClient) Ping(ctx context.Context) error {
	err := s.do(ctx, http.MethodGet, "/health", nil, nil, nil)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status >= http.StatusInternalServerError {
		return fmt.Errorf("%w: %s", ErrUnavailable, apiErr.Error())
	}
	return err
}
