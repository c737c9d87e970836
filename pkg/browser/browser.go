package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"
	"talentpipe/pkg/config"
	"talentpipe/pkg/dom"
	"talentpipe/pkg/logger"
)

const defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36"

// Session owns one Chrome tab, either launched locally or attached to a
// running browser through its DevTools URL
type Session struct {
	ctx         context.Context
	cancel      context.CancelFunc
	cfg         config.BrowserConfig
	logger      logger.Logger
	allocCancel context.CancelFunc
}

// Open starts (or attaches to) Chrome and opens a tab
func Open(parent context.Context, cfg config.BrowserConfig, log logger.Logger) (*Session, error) {
	if log == nil {
		log = logger.GetLogger()
	}
	log = log.WithField("component", "browser")

	var allocCtx context.Context
	var allocCancel context.CancelFunc
	if cfg.RemoteURL != "" {
		allocCtx, allocCancel = chromedp.NewRemoteAllocator(parent, cfg.RemoteURL)
	} else {
		allocCtx, allocCancel = chromedp.NewExecAllocator(parent, allocatorOptions(cfg)...)
	}

	ctx, cancel := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(format string, args ...interface{}) {
		log.Debug(fmt.Sprintf(format, args...))
	}))

	// An empty Run starts the browser so launch failures surface here
	if err := chromedp.Run(ctx); err != nil {
		cancel()
		allocCancel()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	logger.LogComponentStart(log, "browser", map[string]interface{}{
		"headless": cfg.Headless,
		"remote":   cfg.RemoteURL != "",
	})
	return &Session{ctx: ctx, cancel: cancel, allocCancel: allocCancel, cfg: cfg, logger: log}, nil
}

func allocatorOptions(cfg config.BrowserConfig) []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-notifications", true),
		chromedp.UserAgent(defaultUserAgent),
	)
	if cfg.WindowWidth > 0 && cfg.WindowHeight > 0 {
		opts = append(opts, chromedp.WindowSize(cfg.WindowWidth, cfg.WindowHeight))
	}
	if cfg.UserDataDir != "" {
		opts = append(opts, chromedp.UserDataDir(cfg.UserDataDir))
	}
	return opts
}

// Close shuts the tab and, for a launched browser, the browser itself
func (s *Session) Close() {
	s.cancel()
	s.allocCancel()
	logger.LogComponentStop(s.logger, "browser", "closed")
}

// Navigate loads url and waits for the body to be ready
func (s *Session) Navigate(ctx context.Context, url string) error {
	timeout := s.cfg.NavigationTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	navCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	s.logger.InfoWithFields("Navigating", map[string]interface{}{"url": url})
	return s.run(navCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
}

// Location returns the URL of the current tab
func (s *Session) Location(ctx context.Context) (string, error) {
	var loc string
	if err := s.run(ctx, chromedp.Location(&loc)); err != nil {
		return "", err
	}
	return loc, nil
}

// Page exposes the tab as a results page
func (s *Session) Page() *Page {
	return &Page{session: s}
}

// run executes actions in the tab, stopping early when ctx is done
func (s *Session) run(ctx context.Context, actions ...chromedp.Action) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	runCtx, cancel := context.WithCancel(s.ctx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	if err := chromedp.Run(runCtx, actions...); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}

// Page reads and drives the search results shown in the tab
type Page struct {
	session *Session
}

func (p *Page) ProfileCandidates(ctx context.Context) ([]dom.Candidate, error) {
	doc, err := p.document(ctx)
	if err != nil {
		return nil, err
	}
	return dom.Candidates(doc), nil
}

// NextPageControl returns nil when the page shows no enabled next control
func (p *Page) NextPageControl(ctx context.Context) (dom.Control, error) {
	doc, err := p.document(ctx)
	if err != nil {
		return nil, err
	}
	if _, selector := dom.FindNext(doc); selector != "" {
		return &control{session: p.session, selector: selector}, nil
	}
	return nil, nil
}

func (p *Page) ScrollHeight(ctx context.Context) (int64, error) {
	var h int64
	if err := p.session.run(ctx, chromedp.Evaluate(`document.body.scrollHeight`, &h)); err != nil {
		return 0, fmt.Errorf("failed to read scroll height: %w", err)
	}
	return h, nil
}

func (p *Page) ScrollTo(ctx context.Context, y int64) error {
	script := fmt.Sprintf(`window.scrollTo(0, %d)`, y)
	if err := p.session.run(ctx, chromedp.Evaluate(script, nil)); err != nil {
		return fmt.Errorf("failed to scroll: %w", err)
	}
	return nil
}

func (p *Page) document(ctx context.Context) (*goquery.Document, error) {
	var html string
	if err := p.session.run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return nil, fmt.Errorf("failed to read page HTML: %w", err)
	}
	return dom.ParseString(html)
}

// control clicks the first element matching selector through the DOM, the
// same way a user click on the pagination button would
type control struct {
	session  *Session
	selector string
}

func (c *control) Click(ctx context.Context) error {
	script, err := clickScript(c.selector)
	if err != nil {
		return err
	}
	var clicked bool
	if err := c.session.run(ctx, chromedp.Evaluate(script, &clicked)); err != nil {
		return fmt.Errorf("failed to click next page: %w", err)
	}
	if !clicked {
		return fmt.Errorf("next page control %q disappeared", c.selector)
	}
	return nil
}

func clickScript(selector string) (string, error) {
	quoted, err := json.Marshal(selector)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(`(() => { const el = document.querySelector(%s); if (!el) return false; el.click(); return true; })()`, quoted), nil
}
