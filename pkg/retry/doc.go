// Package retry runs idempotent operations with backoff.
//
// Profile submissions are deliberately not retried: the remote service has no
// idempotency key, so a retried POST could process a profile twice. Reads such
// as the project listing go through Do or DoWithResult.
package retry
