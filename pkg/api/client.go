package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	errs "talentpipe/pkg/errors"
	"talentpipe/pkg/logger"
	"talentpipe/pkg/ratelimit"
	"talentpipe/pkg/retry"
)

// DefaultSuccessMessage is used when the service omits a message
const DefaultSuccessMessage = "Profile processed successfully"

// TokenSource supplies the bearer token for each request
type TokenSource interface {
	Token() (string, error)
}

// Options configures a Client
type Options struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
	// Limiter caps submission rate; nil means unlimited
	Limiter ratelimit.Limiter
	// Retry applies to idempotent reads only; nil uses retry.DefaultConfig
	Retry  *retry.Config
	Logger logger.Logger
}

// Client talks to the profile-processing service
type Client struct {
	http    *resty.Client
	baseURL string
	tokens  TokenSource
	limiter ratelimit.Limiter
	retry   *retry.Config
	logger  logger.Logger
}

// NewClient creates a Client. Every request carries opts.Timeout so a stalled
// call surfaces as an error instead of hanging the caller.
func NewClient(tokens TokenSource, opts Options) *Client {
	log := opts.Logger
	if log == nil {
		log = logger.GetLogger()
	}
	limiter := opts.Limiter
	if limiter == nil {
		limiter = ratelimit.Unlimited{}
	}
	retryCfg := opts.Retry
	if retryCfg == nil {
		retryCfg = retry.DefaultConfig()
		retryCfg.Logger = log
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	if opts.UserAgent != "" {
		client.SetHeader("User-Agent", opts.UserAgent)
	}

	c := &Client{
		http:    client,
		baseURL: baseURL,
		tokens:  tokens,
		limiter: limiter,
		retry:   retryCfg,
		logger:  log.WithField("component", "api"),
	}
	c.instrument()
	return c
}

// BaseURL returns the service root without a trailing slash
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ResultsURL is the admin page listing processed profiles
func (c *Client) ResultsURL() string {
	return c.baseURL + "/admin"
}

func (c *Client) instrument() {
	c.http.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		c.logger.DebugWithFields("sending HTTP request", map[string]interface{}{
			"method": req.Method,
			"url":    req.URL,
		})
		return nil
	})
	c.http.OnAfterResponse(func(_ *resty.Client, res *resty.Response) error {
		logger.LogRequest(c.logger, res.Request.Method, res.Request.URL, res.StatusCode(),
			float64(res.Time().Microseconds())/1000)
		return nil
	})
	c.http.OnError(func(req *resty.Request, err error) {
		c.logger.WithError(err).WarnWithFields("HTTP request failed", map[string]interface{}{
			"method": req.Method,
			"url":    req.URL,
		})
	})
}

// authorized returns a request carrying the bearer token, failing without a
// network call when no token is stored
func (c *Client) authorized(ctx context.Context) (*resty.Request, error) {
	token, err := c.tokens.Token()
	if err != nil {
		return nil, errs.Wrap(errs.ErrorTypeAuth, "failed to read auth token", err)
	}
	if strings.TrimSpace(token) == "" {
		return nil, errs.New(errs.ErrorTypeAuth, "authentication required")
	}
	return c.http.R().SetContext(ctx).SetAuthToken(token), nil
}

// do checks transport errors and status, then decodes a JSON body into out
func (c *Client) do(ctx context.Context, res *resty.Response, err error, out interface{}) error {
	if err != nil {
		if ctx.Err() != nil {
			return errs.Wrap(errs.ErrorTypeCancelled, "request aborted", ctx.Err())
		}
		return errs.Wrap(errs.ErrorTypeNetwork, "request failed", err)
	}
	if !res.IsSuccess() {
		return errs.FromStatus(res.StatusCode(), strings.TrimSpace(res.String()))
	}
	if out == nil || len(res.Body()) == 0 {
		return nil
	}
	if err := json.Unmarshal(res.Body(), out); err != nil {
		return errs.Wrap(errs.ErrorTypeParsing, "invalid JSON response", err)
	}
	return nil
}

func requireProject(projectID string) error {
	if strings.TrimSpace(projectID) == "" {
		return errs.New(errs.ErrorTypeValidation, "project ID is required")
	}
	return nil
}

// IsAuthError reports whether err means the token is missing or rejected
func IsAuthError(err error) bool {
	var e *errs.Error
	return errors.As(err, &e) && e.Type == errs.ErrorTypeAuth
}

func (c *Client) String() string {
	return fmt.Sprintf("api.Client(%s)", c.baseURL)
}
