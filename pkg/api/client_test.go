package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	errs "talentpipe/pkg/errors"
	"talentpipe/pkg/logger"
	"talentpipe/pkg/models"
	"talentpipe/pkg/ratelimit"
	"talentpipe/pkg/retry"
)

type staticToken string

func (s staticToken) Token() (string, error) { return string(s), nil }

type failingToken struct{ err error }

func (f failingToken) Token() (string, error) { return "", f.err }

func newTestClient(t *testing.T, handler http.HandlerFunc, tokens TokenSource) (*Client, *logger.TestLogger) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	log := logger.NewTestLogger()
	client := NewClient(tokens, Options{
		BaseURL: srv.URL + "/",
		Timeout: 5 * time.Second,
		Logger:  log,
		Retry: &retry.Config{
			MaxAttempts: 3,
			Backoff:     &retry.ConstantBackoff{Delay: time.Millisecond},
			RetryIf:     retry.DefaultRetryIf,
		},
	})
	return client, log
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestSubmitSendsBearerTokenAndBody(t *testing.T) {
	var got models.ScrapeRequest
	client, log := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/scrape", r.URL.Path)
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		writeJSON(w, http.StatusOK, map[string]interface{}{"profile_id": 99, "message": "Stored"})
	}, staticToken("tok-1"))

	result, err := client.Submit(context.Background(), "https://www.linkedin.com/in/uid-7", "42")
	require.NoError(t, err)

	assert.Equal(t, "https://www.linkedin.com/in/uid-7", got.LinkedInURL)
	assert.Equal(t, "42", got.ProjectID)
	assert.True(t, result.OK())
	assert.Equal(t, models.FlexibleID("99"), result.ProfileID)
	assert.Equal(t, "Stored", result.Message)
	assert.True(t, log.HasMessage("HTTP request completed"))
}

func TestSubmitDefaultsMessage(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{})
	}, staticToken("tok"))

	result, err := client.Submit(context.Background(), "https://www.linkedin.com/in/a", "1")
	require.NoError(t, err)
	assert.Equal(t, DefaultSuccessMessage, result.Message)
}

func TestSubmitNon2xxCarriesStatusAndBody(t *testing.T) {
	client, log := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	}, staticToken("tok"))

	result, err := client.Submit(context.Background(), "https://www.linkedin.com/in/a", "1")
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Equal(t, "API error (500): boom", err.Error())
	assert.Equal(t, errs.ErrorTypeServerError, errs.TypeOf(err))
	assert.True(t, log.HasMessage("HTTP request server error"))
}

func TestSubmitIsNotRetried(t *testing.T) {
	var calls int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}, staticToken("tok"))

	_, err := client.Submit(context.Background(), "https://www.linkedin.com/in/a", "1")
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestSubmitValidatesBeforeNetwork(t *testing.T) {
	var calls int32
	handler := func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		writeJSON(w, http.StatusOK, map[string]interface{}{})
	}

	tests := []struct {
		name    string
		tokens  TokenSource
		url     string
		project string
		want    errs.ErrorType
	}{
		{"missing token", staticToken(""), "https://www.linkedin.com/in/a", "1", errs.ErrorTypeAuth},
		{"token read fails", failingToken{errors.New("locked")}, "https://www.linkedin.com/in/a", "1", errs.ErrorTypeAuth},
		{"missing project", staticToken("tok"), "https://www.linkedin.com/in/a", " ", errs.ErrorTypeValidation},
		{"missing url", staticToken("tok"), "", "1", errs.ErrorTypeValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, handler, tt.tokens)
			_, err := client.Submit(context.Background(), tt.url, tt.project)
			require.Error(t, err)
			assert.Equal(t, tt.want, errs.TypeOf(err))
		})
	}
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestSubmitNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := srv.URL
	srv.Close()

	client := NewClient(staticToken("tok"), Options{BaseURL: base, Timeout: time.Second, Logger: logger.NewNopLogger()})
	_, err := client.Submit(context.Background(), "https://www.linkedin.com/in/a", "1")
	require.Error(t, err)
	assert.Equal(t, errs.ErrorTypeNetwork, errs.TypeOf(err))
}

func TestSubmitCancelledContext(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{})
	}, staticToken("tok"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := client.Submit(ctx, "https://www.linkedin.com/in/a", "1")
	require.Error(t, err)
	assert.Equal(t, errs.ErrorTypeCancelled, errs.TypeOf(err))
}

func TestSubmitWaitsOnLimiter(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		writeJSON(w, http.StatusOK, map[string]interface{}{})
	}))
	t.Cleanup(srv.Close)

	client := NewClient(staticToken("tok"), Options{
		BaseURL: srv.URL,
		Timeout: time.Second,
		Logger:  logger.NewNopLogger(),
		Limiter: ratelimit.NewTokenBucket(time.Hour, 1),
	})

	_, err := client.Submit(context.Background(), "https://www.linkedin.com/in/a", "1")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = client.SubmitBatch(ctx, []string{"https://www.linkedin.com/in/b"}, "1")
	require.Error(t, err)
	assert.Equal(t, errs.ErrorTypeCancelled, errs.TypeOf(err))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestSubmitBatch(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/batch-scrape", r.URL.Path)
		var req models.BatchScrapeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Len(t, req.LinkedInURLs, 2)

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"profiles": []map[string]interface{}{
				{"linkedin_url": req.LinkedInURLs[0], "status": "success", "profile_id": "p1", "message": "ok"},
				{"linkedin_url": req.LinkedInURLs[1], "status": "error", "message": "private profile"},
			},
		})
	}, staticToken("tok"))

	results, err := client.SubmitBatch(context.Background(),
		[]string{"https://www.linkedin.com/in/a", "https://www.linkedin.com/in/b"}, "7")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.True(t, results[0].OK())
	assert.False(t, results[1].OK())
	assert.Equal(t, "private profile", results[1].Message)

	_, err = client.SubmitBatch(context.Background(), nil, "7")
	assert.Equal(t, errs.ErrorTypeValidation, errs.TypeOf(err))
}

func TestLogin(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/login", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))

		var req models.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Password != "secret" {
			writeJSON(w, http.StatusOK, map[string]interface{}{"authenticated": false, "message": "Invalid credentials"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"authenticated": true,
			"token":         "tok-new",
			"user":          map[string]interface{}{"id": 5, "email": req.Email},
		})
	}, staticToken(""))

	resp, err := client.Login(context.Background(), "a@b.test", "secret")
	require.NoError(t, err)
	assert.Equal(t, "tok-new", resp.Token)
	require.NotNil(t, resp.User)
	assert.Equal(t, "a@b.test", resp.User.Email)

	_, err = client.Login(context.Background(), "a@b.test", "wrong")
	require.Error(t, err)
	assert.True(t, IsAuthError(err))
	assert.Contains(t, err.Error(), "Invalid credentials")

	_, err = client.Login(context.Background(), "", "x")
	assert.Equal(t, errs.ErrorTypeValidation, errs.TypeOf(err))
}

func TestProjectsRetriesServerErrors(t *testing.T) {
	var calls int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		writeJSON(w, http.StatusOK, []map[string]interface{}{
			{"id": 1, "name": "Backend hires"},
			{"id": "abc", "name": "Design"},
		})
	}, staticToken("tok"))

	projects, err := client.Projects(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	require.Len(t, projects, 2)
	assert.Equal(t, models.FlexibleID("1"), projects[0].ID)
	assert.Equal(t, "Design", projects[1].Name)
}

func TestProjectsDoesNotRetryAuthErrors(t *testing.T) {
	var calls int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
	}, staticToken("tok"))

	_, err := client.Projects(context.Background())
	require.Error(t, err)
	assert.True(t, IsAuthError(err))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestResultsURL(t *testing.T) {
	client := NewClient(staticToken(""), Options{BaseURL: "https://svc.test/", Logger: logger.NewNopLogger()})
	assert.Equal(t, "https://svc.test", client.BaseURL())
	assert.Equal(t, "https://svc.test/admin", client.ResultsURL())
}
