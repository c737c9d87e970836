package api

import (
	"context"
	"strings"

	errs "talentpipe/pkg/errors"
	"talentpipe/pkg/models"
	"talentpipe/pkg/retry"
)

const (
	scrapeEndpoint      = "/api/scrape"
	batchScrapeEndpoint = "/api/batch-scrape"
	loginEndpoint       = "/api/login"
	projectsEndpoint    = "/api/projects"
)

// Submit sends one profile URL for processing. It is never retried.
func (c *Client) Submit(ctx context.Context, profileURL, projectID string) (*models.Result, error) {
	if strings.TrimSpace(profileURL) == "" {
		return nil, errs.New(errs.ErrorTypeValidation, "LinkedIn URL is required")
	}
	if err := requireProject(projectID); err != nil {
		return nil, err
	}
	req, err := c.authorized(ctx)
	if err != nil {
		return nil, err
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, errs.Wrap(errs.ErrorTypeCancelled, "rate limiter wait aborted", err)
	}

	var body models.ScrapeResponse
	res, err := req.
		SetBody(models.ScrapeRequest{LinkedInURL: profileURL, ProjectID: projectID}).
		Post(scrapeEndpoint)
	if err := c.do(ctx, res, err, &body); err != nil {
		return nil, err
	}

	message := body.Message
	if message == "" {
		message = DefaultSuccessMessage
	}
	return &models.Result{
		URL:       profileURL,
		Status:    models.StatusSuccess,
		ProfileID: body.ProfileID,
		Message:   message,
	}, nil
}

// SubmitBatch sends several profile URLs in one request
func (c *Client) SubmitBatch(ctx context.Context, profileURLs []string, projectID string) ([]models.Result, error) {
	if len(profileURLs) == 0 {
		return nil, errs.New(errs.ErrorTypeValidation, "LinkedIn URLs are required")
	}
	if err := requireProject(projectID); err != nil {
		return nil, err
	}
	req, err := c.authorized(ctx)
	if err != nil {
		return nil, err
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, errs.Wrap(errs.ErrorTypeCancelled, "rate limiter wait aborted", err)
	}

	var body models.BatchScrapeResponse
	res, err := req.
		SetBody(models.BatchScrapeRequest{LinkedInURLs: profileURLs, ProjectID: projectID}).
		Post(batchScrapeEndpoint)
	if err := c.do(ctx, res, err, &body); err != nil {
		return nil, err
	}
	return body.Profiles, nil
}

// Login exchanges credentials for a token. It needs no stored token.
func (c *Client) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, errs.New(errs.ErrorTypeValidation, "email and password are required")
	}

	var body models.LoginResponse
	res, err := c.http.R().
		SetContext(ctx).
		SetBody(models.LoginRequest{Email: email, Password: password}).
		Post(loginEndpoint)
	if err := c.do(ctx, res, err, &body); err != nil {
		return nil, err
	}

	if !body.Authenticated || body.Token == "" {
		msg := body.Message
		if msg == "" {
			msg = "Authentication failed"
		}
		return nil, errs.New(errs.ErrorTypeAuth, msg)
	}
	return &body, nil
}

// Projects lists the projects visible to the current token
func (c *Client) Projects(ctx context.Context) ([]models.Project, error) {
	return retry.DoWithResult(ctx, func(ctx context.Context) ([]models.Project, error) {
		req, err := c.authorized(ctx)
		if err != nil {
			return nil, err
		}
		var projects []models.Project
		res, err := req.Get(projectsEndpoint)
		if err := c.do(ctx, res, err, &projects); err != nil {
			return nil, err
		}
		return projects, nil
	}, c.retry)
}
