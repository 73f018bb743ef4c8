package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/krsnavtr-code/Pass-Manager/internal/logging"
	"github.com/krsnavtr-code/Pass-Manager/internal/server/config"
	"github.com/krsnavtr-code/Pass-Manager/internal/server/metrics"
	"github.com/krsnavtr-code/Pass-Manager/internal/server/repositories/repomanager"
	"github.com/krsnavtr-code/Pass-Manager/internal/server/services"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type nopLogger struct{}

func (n nopLogger) Debug(context.Context, string, ...any) {}
func (n nopLogger) Info(context.Context, string, ...any)  {}
func (n nopLogger) Warn(context.Context, string, ...any)  {}
func (n nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) logging.Logger            { return n }

type testClock struct{ t time.Time }

func (c *testClock) Now() time.Time { return c.t }

type testAPI struct {
	srv     *RESTServer
	handler http.Handler
	clock   *testClock
	rm      *repomanager.MemoryRepositoryManager
	metrics *metrics.Metrics
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.BcryptCost = bcrypt.MinCost
	cfg.SecretKey = "rest-test-secret"

	rm := repomanager.NewMemoryRepositoryManager()
	clock := &testClock{t: time.Now().UTC().Truncate(time.Second)}
	m := metrics.New()

	sessions := services.NewSessionService(rm, cfg.SessionDuration, nopLogger{}).WithClock(clock.Now).WithObserver(m)
	svc := Services{
		Users:    services.NewUserService(rm, sessions, cfg, nopLogger{}),
		Sessions: sessions,
		Entries:  services.NewEntryService(rm, nopLogger{}).WithClock(clock.Now),
		Export:   services.NewExportService(rm, cfg, nopLogger{}),
		Ping:     rm.Ping,
	}

	srv := NewRESTServer("127.0.0.1:0", nopLogger{}, svc, m)
	return &testAPI{srv: srv, handler: srv.Handler(), clock: clock, rm: rm, metrics: m}
}

// call sends a JSON request and decodes the JSON response into a map.
func (a *testAPI) call(t *testing.T, method, path, token string, body any) (int, map[string]any) {
	t.Helper()

	var rd *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	} else {
		rd = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)

	out := map[string]any{}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	}
	return rec.Code, out
}

// registerUser registers name@x.com and returns its bearer token.
func (a *testAPI) registerUser(t *testing.T, name string) string {
	t.Helper()

	code, body := a.call(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name":            name,
		"email":           name + "@x.com",
		"password":        "pw123456",
		"confirmPassword": "pw123456",
		"masterPassword":  "mk1",
	})
	require.Equal(t, http.StatusCreated, code, body)
	return body["token"].(string)
}

func (a *testAPI) createEntry(t *testing.T, token string, fields map[string]any) map[string]any {
	t.Helper()

	code, body := a.call(t, http.MethodPost, "/api/passwords", token, fields)
	require.Equal(t, http.StatusCreated, code, body)
	return body["password"].(map[string]any)
}
