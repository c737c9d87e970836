package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"talentpipe/pkg/browser"
	"talentpipe/pkg/coordinator"
	"talentpipe/pkg/ui"
)

var (
	urlsFile    string
	fromBrowser bool
	workers     int
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape [profile-url...]",
	Short: "Submit one or more profiles to the selected project",
	Long: `Submit LinkedIn profile URLs to the selected project.

A single URL goes through the single-profile endpoint. Several URLs (or a
file with one URL per line) go through the batch endpoint in chunks of 5
with a pause between chunks.

With --from-browser the profile open in the attached Chrome is submitted.`,
	Example: `  talentpipe scrape https://www.linkedin.com/in/jane-doe
  talentpipe scrape --file candidates.txt
  talentpipe scrape --from-browser --remote-url ws://127.0.0.1:9222/devtools/browser/...`,
	Run: runScrape,
}

func init() {
	rootCmd.AddCommand(scrapeCmd)

	scrapeCmd.Flags().StringVarP(&urlsFile, "file", "f", "", "read profile URLs from a file, one per line")
	scrapeCmd.Flags().BoolVar(&fromBrowser, "from-browser", false, "submit the profile open in Chrome")
	scrapeCmd.Flags().StringVar(&remoteURL, "remote-url", "", "attach to a running Chrome DevTools endpoint")
	scrapeCmd.Flags().IntVar(&workers, "workers", 1, "batch requests in flight at once")
}

func runScrape(cmd *cobra.Command, args []string) {
	a := mustLoadApp(appOptions{flags: map[string]interface{}{"remote-url": remoteURL}})
	ctx := cmd.Context()
	requireLogin(a)

	urls := append([]string(nil), args...)
	if urlsFile != "" {
		fromFile, err := readURLs(urlsFile)
		if err != nil {
			fatal("Failed to read URL file", err)
		}
		urls = append(urls, fromFile...)
	}
	if fromBrowser {
		session, err := browser.Open(ctx, a.cfg.Browser, a.log)
		if err != nil {
			fatal("Failed to attach to Chrome", err)
		}
		location, err := session.Location(ctx)
		session.Close()
		if err != nil {
			fatal("Failed to read the current page", err)
		}
		urls = append(urls, location)
	}
	if len(urls) == 0 {
		fatal("No profile URLs given", nil)
	}

	coord := a.coordinator(coordinator.WithWorkers(workers))

	if len(urls) == 1 {
		ui.PrintInfo("Scraping profile", urls[0])
		result, err := coord.ScrapeProfile(ctx, urls[0])
		if err != nil {
			fatal("Scrape failed", err)
		}
		ui.PrintSuccess(result.Message)
		if result.ProfileID != "" {
			ui.PrintInfo("Profile ID", result.ProfileID.String())
		}
		ui.PrintInfo("View results", coord.ResultsURL())
		return
	}

	ui.PrintInfo("Submitting profiles", fmt.Sprint(len(urls)))
	summary, err := coord.ScrapeProfiles(ctx, urls)
	if summary != nil {
		for _, r := range summary.Profiles {
			if !r.OK() {
				ui.PrintError(r.URL, fmt.Errorf("%s", r.Message))
			}
		}
		ui.PrintInfo("Total", fmt.Sprint(summary.Total))
		ui.PrintInfo("Successful", fmt.Sprint(summary.Successful))
		ui.PrintInfo("Failed", fmt.Sprint(summary.Failed))
		ui.PrintInfo("View results", coord.ResultsURL())
	}
	if err != nil {
		fatal("Batch submission failed", err)
	}
	if summary.Failed > 0 {
		os.Exit(1)
	}
}

// readURLs reads one URL per line, skipping blanks and # comments
func readURLs(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var urls []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	return urls, scanner.Err()
}
