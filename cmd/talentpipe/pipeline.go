package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"talentpipe/pkg/browser"
	"talentpipe/pkg/dom"
	"talentpipe/pkg/pipeline"
	"talentpipe/pkg/ui"
	"talentpipe/pkg/ui/tui"
)

var (
	htmlPages []string
	uiMode    string
	maxPages  int
	batchSize int
	headless  bool
	remoteURL string
	noNotify  bool
)

var pipelineCmd = &cobra.Command{
	Use:   "pipeline [search-url]",
	Short: "Collect every profile from a Recruiter search and submit them",
	Long: `Run the pipeline scraper over a LinkedIn Recruiter search.

For each results page the pipeline scrolls until the list stops growing,
collects profile identifiers it has not seen yet, submits them in batches
of 5 to the selected project and moves to the next page, up to 10 pages.

Chrome is started with your configured profile (browser.user_data_dir) or
attached to with --remote-url. When a search URL is given it is opened
first; otherwise the pipeline runs on the page the browser is showing.

Press s in the progress view (or Ctrl+C) to stop after the current profile.`,
	Example: `  # Attach to a Chrome started with --remote-debugging-port=9222
  talentpipe pipeline --remote-url ws://127.0.0.1:9222/devtools/browser/...

  # Open a search in a fresh Chrome using a logged-in profile
  talentpipe pipeline "https://www.linkedin.com/talent/hire/123/discover/recruiterSearch"

  # Dry run against saved result pages
  talentpipe pipeline --html page1.html --html page2.html --ui line`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPipeline,
}

func init() {
	rootCmd.AddCommand(pipelineCmd)

	pipelineCmd.Flags().StringArrayVar(&htmlPages, "html", nil, "scan saved result pages instead of a live browser (repeatable, in page order)")
	pipelineCmd.Flags().StringVar(&uiMode, "ui", "", "progress display: tui, line or quiet")
	pipelineCmd.Flags().IntVar(&maxPages, "max-pages", 0, "maximum result pages to scan (default 10)")
	pipelineCmd.Flags().IntVar(&batchSize, "batch-size", 0, "profiles per batch (default 5)")
	pipelineCmd.Flags().BoolVar(&headless, "headless", false, "run Chrome headless")
	pipelineCmd.Flags().StringVar(&remoteURL, "remote-url", "", "attach to a running Chrome DevTools endpoint")
	pipelineCmd.Flags().BoolVar(&noNotify, "no-notify", false, "skip the desktop notification when the run ends")
}

func runPipeline(cmd *cobra.Command, args []string) {
	flags := map[string]interface{}{
		"ui":         uiMode,
		"max-pages":  maxPages,
		"batch-size": batchSize,
		"headless":   headless,
		"remote-url": remoteURL,
	}
	if quiet {
		flags["ui"] = "quiet"
	}

	a := mustLoadApp(appOptions{flags: flags, fullScreen: true})
	ctx := cmd.Context()

	page, location, closePage := openPage(ctx, a, args)

	coord := a.coordinator()
	scraper, err := coord.NewPipeline(page, location)
	if err != nil {
		closePage()
		fatal("Cannot start pipeline", err)
	}

	stopOnSignal(scraper)

	summary, err := runWithReporter(ctx, a, scraper, coord.ResultsURL())
	closePage()
	switch {
	case errors.Is(err, pipeline.ErrNoToken), errors.Is(err, pipeline.ErrNoProject):
		os.Exit(1)
	case err != nil:
		fatal("Pipeline failed", err)
	}
	if summary.State == pipeline.StateFailed {
		os.Exit(1)
	}
}

// openPage returns the page to scan, its address, and a cleanup func
func openPage(ctx context.Context, a *app, args []string) (pipeline.Page, string, func()) {
	if len(htmlPages) > 0 {
		page, err := dom.LoadStaticPage(htmlPages...)
		if err != nil {
			fatal("Failed to load HTML pages", err)
		}
		return page, "", func() {}
	}

	session, err := browser.Open(ctx, a.cfg.Browser, a.log)
	if err != nil {
		fatal("Failed to start Chrome", err)
	}

	if len(args) == 1 {
		ui.PrintInfo("Opening", args[0])
		if err := session.Navigate(ctx, args[0]); err != nil {
			session.Close()
			fatal("Failed to open search", err)
		}
	}

	location, err := session.Location(ctx)
	if err != nil {
		session.Close()
		fatal("Failed to read the current page", err)
	}
	return session.Page(), location, session.Close
}

// stopOnSignal turns the first SIGINT or SIGTERM into a pipeline stop. The
// handler is then removed, so a second signal kills the process.
func stopOnSignal(scraper *pipeline.Scraper) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go forwardFirstSignal(sigs, scraper.Cancel)
}

func forwardFirstSignal(sigs chan os.Signal, cancel func()) {
	<-sigs
	signal.Stop(sigs)
	cancel()
}

func runWithReporter(ctx context.Context, a *app, scraper *pipeline.Scraper, resultsURL string) (pipeline.Summary, error) {
	var notifier pipeline.Reporter
	if a.cfg.UI.Notifications && !noNotify {
		notifier = ui.NewNotifier()
	}

	switch a.cfg.UI.Mode {
	case "quiet":
		scraper.SetReporter(ui.Multi(notifier))
		return scraper.Run(ctx)

	case "line":
		display := ui.NewProgressDisplay(ui.Out, resultsURL, verbose)
		scraper.SetReporter(ui.Multi(display, notifier))
		return scraper.Run(ctx)
	}

	view := tui.New(resultsURL, scraper.Cancel)
	scraper.SetReporter(ui.Multi(view, notifier))

	var (
		summary pipeline.Summary
		runErr  error
	)
	var g errgroup.Group
	g.Go(func() error {
		err := view.Run()
		// Leaving the view stops the run; the pipeline finishes its current profile
		scraper.Cancel()
		return err
	})
	g.Go(func() error {
		summary, runErr = scraper.Run(ctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		return summary, fmt.Errorf("progress view failed: %w", err)
	}

	printSummary(summary, resultsURL)
	return summary, runErr
}

// printSummary repeats the outcome once the full-screen view has closed
func printSummary(s pipeline.Summary, resultsURL string) {
	switch s.State {
	case pipeline.StateComplete:
		ui.PrintSuccess(fmt.Sprintf("Complete! Found %d profiles, processed %d.", s.Found, s.Processed))
	case pipeline.StateStopped:
		ui.PrintWarning(fmt.Sprintf("Stopped by user after %d of %d profiles.", s.Processed, s.Found))
	case pipeline.StateFailed:
		ui.PrintError("Pipeline could not start", nil)
		return
	}
	if s.Failed > 0 {
		ui.PrintWarning(fmt.Sprintf("%d submissions failed", s.Failed))
	}
	ui.PrintInfo("Duration", ui.FormatDuration(s.Duration))
	ui.PrintInfo("View results", resultsURL)
}
