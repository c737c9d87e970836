// Package browser drives Chrome through chromedp. Session.Page satisfies the
// pipeline's page capability: candidates and pagination controls are found by
// parsing the live document's HTML with pkg/dom, while scrolling and clicks
// run in the tab.
package browser
