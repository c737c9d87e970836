// Package pipeline is the paginating profile scraper.
//
// A run moves through these states:
//
//	Idle -> Initializing -> ScanningPage(n) -> Scrolling -> Extracting
//	     -> BatchSubmitting -> Paginating -> ScanningPage(n+1) ... -> Complete
//
// Stopped is reached from any active state through the CancelToken, and
// Failed from Initializing when the token or the project is missing.
//
// Each page is scrolled until its height stops changing, profile identifiers
// are extracted and deduplicated against everything found so far, and the new
// ones are submitted in batches with fixed pauses between profiles and
// between batches. A failed submission is recorded and the run goes on.
// Pages are scanned strictly in sequence, up to the configured page cap.
//
// All state belongs to one Run call; nothing is kept between runs.
package pipeline
