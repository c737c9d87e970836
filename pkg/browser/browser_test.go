package browser

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"talentpipe/pkg/config"
	"talentpipe/pkg/dom"
	"talentpipe/pkg/logger"
)

func TestClickScriptQuotesSelector(t *testing.T) {
	script, err := clickScript(dom.NextFallbackSelector)
	require.NoError(t, err)
	assert.Contains(t, script, `document.querySelector("a[data-test-pagination-page-btn=\"next\"]:not([disabled])`)
	assert.Contains(t, script, "el.click()")
}

func TestAllocatorOptionsExtendDefaults(t *testing.T) {
	base := len(allocatorOptions(config.BrowserConfig{}))
	withDir := len(allocatorOptions(config.BrowserConfig{UserDataDir: "/tmp/profile", WindowWidth: 800, WindowHeight: 600}))
	assert.Equal(t, base+2, withDir)
}

// Requires a local Chrome; set TALENTPIPE_CHROME_TESTS=1 to run.
func TestLivePageAgainstDataURL(t *testing.T) {
	if os.Getenv("TALENTPIPE_CHROME_TESTS") == "" {
		t.Skip("TALENTPIPE_CHROME_TESTS not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	session, err := Open(ctx, config.BrowserConfig{Headless: true, NavigationTimeout: 30 * time.Second}, logger.NewNopLogger())
	require.NoError(t, err)
	defer session.Close()

	html := `<a href="/talent/profile/LIVE1">x</a><button class="artdeco-pagination__button--next">Next</button>`
	require.NoError(t, session.Navigate(ctx, "data:text/html,"+html))

	page := session.Page()
	cands, err := page.ProfileCandidates(ctx)
	require.NoError(t, err)
	require.Len(t, cands, 1)
	assert.Equal(t, "LIVE1", cands[0].ProfileID())

	next, err := page.NextPageControl(ctx)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.NoError(t, next.Click(ctx))

	h, err := page.ScrollHeight(ctx)
	require.NoError(t, err)
	assert.Positive(t, h)
	assert.NoError(t, page.ScrollTo(ctx, h))
}
