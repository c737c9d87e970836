// Package api is the client for the profile-processing service.
//
// The client covers four endpoints:
//   - POST /api/scrape submits one LinkedIn profile URL to a project
//   - POST /api/batch-scrape submits several URLs in one request
//   - POST /api/login exchanges email and password for a bearer token
//   - GET /api/projects lists the projects the token can submit to
//
// Submissions are never retried, since the service may have stored the
// profile before a failure surfaced. Project listing is an idempotent read
// and goes through pkg/retry. Non-2xx responses come back as *errors.Error
// whose Error() text is "API error (<status>): <body>".
//
// Example usage:
//
//	client := api.NewClient(tokens, api.Options{
//	    BaseURL: "https://example.test",
//	    Timeout: 30 * time.Second,
//	    Limiter: ratelimit.PerMinute(60),
//	})
//	result, err := client.Submit(ctx, "https://www.linkedin.com/in/uid-123", "42")
package api
