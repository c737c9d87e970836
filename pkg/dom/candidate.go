package dom

import (
	"regexp"
	"strings"
)

// ProfileSelectors match elements that may carry a profile identifier.
// Several layouts of the results page are covered at once.
var ProfileSelectors = []string{
	`a[href*="/talent/profile/"]`,
	`a[href*="/recruiter/profile/"]`,
	`a[href*="linkedin.com/talent/profile/"]`,
	`a[href*="linkedin.com/recruiter/profile/"]`,
	`[data-entity-urn*="profile:"]`,
	`li[data-chameleon-result-urn*="profile:"]`,
}

// ProfileSelector is ProfileSelectors joined into one selector group
var ProfileSelector = strings.Join(ProfileSelectors, ", ")

const (
	// NextSelector is the primary "next page" control
	NextSelector = `button.artdeco-pagination__button--next:not([disabled])`
	// NextFallbackSelector is tried when NextSelector matches nothing
	NextFallbackSelector = `a[data-test-pagination-page-btn="next"]:not([disabled]), button[data-test-pagination-next-btn]:not([disabled])`
)

const (
	entityURNAttr    = "data-entity-urn"
	chameleonURNAttr = "data-chameleon-result-urn"
	urnProfileMarker = "profile:"
)

var hrefProfilePattern = regexp.MustCompile(`/profile/([^/?#]+)`)

// Candidate is one element matched by ProfileSelector
type Candidate struct {
	Href         string
	EntityURN    string
	ChameleonURN string
	// Err is set when the element's attributes could not be read
	Err error
}

// ProfileID extracts an identifier from the href, then the entity URN, then
// the result URN. It returns "" when none of them yields one.
func (c Candidate) ProfileID() string {
	if m := hrefProfilePattern.FindStringSubmatch(c.Href); len(m) > 1 && m[1] != "" {
		return m[1]
	}
	if id := urnProfileID(c.EntityURN); id != "" {
		return id
	}
	return urnProfileID(c.ChameleonURN)
}

// urnProfileID returns the text between the first "profile:" marker and the
// next one, if any
func urnProfileID(urn string) string {
	parts := strings.Split(urn, urnProfileMarker)
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}
