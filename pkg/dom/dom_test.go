package dom

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const resultsPage = `<html><body>
<ol>
  <li data-chameleon-result-urn="urn:li:ts_profile:AAA111">
    <a href="/talent/profile/AAA111?trk=search">Ada</a>
  </li>
  <li><a href="https://www.linkedin.com/recruiter/profile/BBB222#top">Grace</a></li>
  <li><div data-entity-urn="urn:li:fs_profile:CCC333">Linus</div></li>
  <li data-chameleon-result-urn="urn:li:ts_profile:DDD444">no link</li>
  <li><a href="/company/acme">not a profile</a></li>
</ol>
<button class="artdeco-pagination__button--next">Next</button>
</body></html>`

func TestCandidatesDocumentOrder(t *testing.T) {
	doc, err := ParseString(resultsPage)
	require.NoError(t, err)

	var ids []string
	for _, c := range Candidates(doc) {
		ids = append(ids, c.ProfileID())
	}
	// The first li and its anchor both match
	assert.Equal(t, []string{"AAA111", "AAA111", "BBB222", "CCC333", "DDD444"}, ids)
}

func TestProfileIDPrecedence(t *testing.T) {
	tests := []struct {
		name string
		c    Candidate
		want string
	}{
		{"href wins", Candidate{Href: "/talent/profile/H1", EntityURN: "urn:profile:E1", ChameleonURN: "urn:profile:C1"}, "H1"},
		{"entity urn next", Candidate{Href: "/company/x", EntityURN: "urn:li:profile:E1", ChameleonURN: "urn:profile:C1"}, "E1"},
		{"chameleon urn last", Candidate{ChameleonURN: "urn:li:ts_profile:C1"}, "C1"},
		{"query and fragment stripped", Candidate{Href: "https://www.linkedin.com/talent/profile/Q1?x=1#y"}, "Q1"},
		{"text between markers", Candidate{EntityURN: "profile:A:profile:B"}, "A:"},
		{"empty after marker", Candidate{EntityURN: "urn:profile:"}, ""},
		{"nothing", Candidate{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.c.ProfileID())
		})
	}
}

func TestFindNextPrimaryAndFallback(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		selector string
	}{
		{"primary", `<button class="artdeco-pagination__button--next">Next</button>`, NextSelector},
		{"primary disabled falls back", `<button class="artdeco-pagination__button--next" disabled>Next</button>
			<a data-test-pagination-page-btn="next">Next</a>`, NextFallbackSelector},
		{"fallback button", `<button data-test-pagination-next-btn>Next</button>`, NextFallbackSelector},
		{"all disabled", `<button class="artdeco-pagination__button--next" disabled></button>
			<button data-test-pagination-next-btn disabled></button>`, ""},
		{"none", `<p>end of results</p>`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := ParseString(tt.html)
			require.NoError(t, err)
			sel, matched := FindNext(doc)
			assert.Equal(t, tt.selector, matched)
			assert.Equal(t, tt.selector != "", sel != nil)
		})
	}
}

func TestStaticPageAdvancesOnNext(t *testing.T) {
	ctx := context.Background()
	page, err := NewStaticPage(resultsPage, `<a href="/talent/profile/ZZZ999">Zed</a>`)
	require.NoError(t, err)

	next, err := page.NextPageControl(ctx)
	require.NoError(t, err)
	require.NotNil(t, next)
	require.NoError(t, next.Click(ctx))
	assert.Equal(t, 1, page.Current())

	// A control from an earlier page no longer applies
	assert.Error(t, next.Click(ctx))

	cands, err := page.ProfileCandidates(ctx)
	require.NoError(t, err)
	require.Len(t, cands, 1)
	assert.Equal(t, "ZZZ999", cands[0].ProfileID())

	next, err = page.NextPageControl(ctx)
	require.NoError(t, err)
	assert.Nil(t, next)
}

func TestStaticPageLastDocumentWithNextControl(t *testing.T) {
	ctx := context.Background()
	page, err := NewStaticPage(resultsPage)
	require.NoError(t, err)

	next, err := page.NextPageControl(ctx)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Error(t, next.Click(ctx))
}

func TestLoadStaticPage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "page1.html")
	require.NoError(t, os.WriteFile(path, []byte(resultsPage), 0600))

	page, err := LoadStaticPage(path)
	require.NoError(t, err)
	h, err := page.ScrollHeight(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(len(resultsPage)), h)

	_, err = LoadStaticPage(filepath.Join(dir, "missing.html"))
	assert.Error(t, err)

	_, err = NewStaticPage()
	assert.Error(t, err)
}
