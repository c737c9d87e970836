// Package dom finds profile candidates and pagination controls in recruiter
// search-result markup. Live pages (pkg/browser) and fixed HTML fixtures
// (StaticPage) share the same goquery extractor.
package dom
