// Package ratelimit caps how fast talentpipe calls the profile-processing API.
//
// The pipeline already paces submissions with fixed delays; the limiter is a
// ceiling on top of that so that ad-hoc commands (batch scrapes, repeated
// single-profile scrapes) cannot exceed the configured requests per minute.
//
//	limiter := ratelimit.PerMinute(60)
//	if err := limiter.Wait(ctx); err != nil {
//	    return err // ctx cancelled while waiting
//	}
package ratelimit
