package dom

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/PuerkitoBio/goquery"
)

// Control is a clickable page element
type Control interface {
	Click(ctx context.Context) error
}

// StaticPage serves a fixed sequence of HTML documents as if they were the
// pages of a live search. Clicking the next-page control advances to the
// following document.
type StaticPage struct {
	mu      sync.Mutex
	docs    []*goquery.Document
	heights []int64
	current int
	scrollY int64
}

// NewStaticPage parses one HTML document per results page
func NewStaticPage(pages ...string) (*StaticPage, error) {
	if len(pages) == 0 {
		return nil, fmt.Errorf("at least one page is required")
	}
	p := &StaticPage{}
	for i, html := range pages {
		doc, err := ParseString(html)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i+1, err)
		}
		p.docs = append(p.docs, doc)
		p.heights = append(p.heights, int64(len(html)))
	}
	return p, nil
}

// LoadStaticPage reads each file as one results page
func LoadStaticPage(paths ...string) (*StaticPage, error) {
	pages := make([]string, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		pages = append(pages, string(data))
	}
	return NewStaticPage(pages...)
}

// Current is the zero-based index of the document being shown
func (p *StaticPage) Current() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

func (p *StaticPage) ProfileCandidates(ctx context.Context) ([]Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return Candidates(p.docs[p.current]), nil
}

// NextPageControl returns nil when the current document has no enabled
// next-page control
func (p *StaticPage) NextPageControl(ctx context.Context) (Control, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if sel, _ := FindNext(p.docs[p.current]); sel == nil {
		return nil, nil
	}
	return staticNext{page: p, from: p.current}, nil
}

func (p *StaticPage) ScrollHeight(ctx context.Context) (int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.heights[p.current], ctx.Err()
}

func (p *StaticPage) ScrollTo(ctx context.Context, y int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.scrollY = y
	return ctx.Err()
}

type staticNext struct {
	page *StaticPage
	from int
}

func (n staticNext) Click(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	n.page.mu.Lock()
	defer n.page.mu.Unlock()
	if n.page.current != n.from {
		return fmt.Errorf("stale next-page control for page %d", n.from+1)
	}
	if n.from+1 >= len(n.page.docs) {
		return fmt.Errorf("no page after page %d", n.from+1)
	}
	n.page.current++
	n.page.scrollY = 0
	return nil
}
