package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"talentpipe/pkg/config"
	"talentpipe/pkg/ui"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage talentpipe configuration.

Configuration can be loaded from:
  - Command line flags (highest priority)
  - Environment variables (TALENTPIPE_*)
  - .env file
  - Configuration file
  - Default values (lowest priority)`,
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an example configuration file",
	Long: `Create an example configuration file with all available options.

The file is created as '.talentpipe.yaml' in the current directory unless
a different path is given with --config.`,
	Run: runConfigInit,
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Run:   runConfigShow,
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration",
	Run:   runConfigValidate,
}

var setBaseURLCmd = &cobra.Command{
	Use:   "set-base-url [url]",
	Short: "Store a service URL override; no argument restores the default",
	Args:  cobra.MaximumNArgs(1),
	Run:   runSetBaseURL,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(initCmd)
	configCmd.AddCommand(showCmd)
	configCmd.AddCommand(validateCmd)
	configCmd.AddCommand(setBaseURLCmd)
}

const exampleConfig = `# talentpipe configuration file
#
# Environment variables prefixed with TALENTPIPE_ override these values,
# for example TALENTPIPE_BASE_URL or TALENTPIPE_MAX_PAGES.

# Profile-processing service
api:
  base_url: "https://linkedin-profile-scraper.replit.app"
  # Per-request timeout
  timeout: 30s
  # Ceiling on profile submissions
  requests_per_minute: 60
  user_agent: "talentpipe/1.3.5"
  # Retries for read-only calls such as listing projects
  read_retries: 3

# Pipeline pacing and bounds
pipeline:
  batch_size: 5
  profile_delay: 1500ms
  batch_delay: 2000ms
  page_settle_delay: 3000ms
  max_pages: 10
  scroll_delay: 1000ms
  scroll_settle_delay: 500ms
  max_scroll_iterations: 20
  stable_scroll_checks: 3

# Chrome instance the pipeline drives
browser:
  headless: false
  # Reuse a profile that is already logged into LinkedIn Recruiter
  user_data_dir: ""
  # Attach to a running Chrome instead, e.g. ws://127.0.0.1:9222
  remote_url: ""
  window_width: 1440
  window_height: 900
  navigation_timeout: 60s

# Progress display: tui, line or quiet
ui:
  mode: "tui"
  notifications: true

# Local state (service URL override, selected project)
state:
  # Defaults to ~/.config/talentpipe/state.json
  # path: ""

logging:
  # debug, info, warn, error
  level: "info"
  # Leave empty to log to stderr
  file: ""
`

func runConfigInit(cmd *cobra.Command, args []string) {
	configPath := configFile
	if configPath == "" {
		configPath = ".talentpipe.yaml"
	}

	if _, err := os.Stat(configPath); err == nil {
		ui.PrintError("Configuration file already exists: "+configPath, nil)
		fmt.Println("\nTo overwrite, first remove the existing file:")
		fmt.Printf("  rm %s\n", configPath)
		os.Exit(1)
	}

	if err := os.WriteFile(configPath, []byte(exampleConfig), 0644); err != nil {
		fatal("Failed to create configuration file", err)
	}

	ui.PrintSuccess("Configuration file created: " + configPath)
	fmt.Println("\nNext steps:")
	fmt.Println("1. Run 'talentpipe auth login'")
	fmt.Println("2. Run 'talentpipe project select'")
	fmt.Println("3. Open a Recruiter search and run 'talentpipe pipeline'")
}

func runConfigShow(cmd *cobra.Command, args []string) {
	a := mustLoadApp(appOptions{})

	display := *a.cfg
	display.API.BaseURL = a.client.BaseURL()

	data, err := yaml.Marshal(&display)
	if err != nil {
		fatal("Failed to format configuration", err)
	}

	ui.PrintHighlight("Current Configuration")
	fmt.Println()
	fmt.Print(string(data))

	fmt.Println("\nConfiguration sources (in order of priority):")
	fmt.Println("1. Command line flags")
	fmt.Println("2. Environment variables (TALENTPIPE_*)")
	if configFile != "" {
		fmt.Printf("3. Configuration file: %s\n", configFile)
	} else {
		fmt.Println("3. Configuration file: (searched default locations)")
	}
	fmt.Println("4. Stored service URL override")
	fmt.Println("5. Default values")
}

func runConfigValidate(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(configFile, nil)
	if err != nil {
		fatal("Configuration validation failed", err)
	}

	var warnings []string
	if cfg.Browser.Headless && cfg.Browser.UserDataDir == "" && cfg.Browser.RemoteURL == "" {
		warnings = append(warnings, "headless browser without user_data_dir will not be logged into LinkedIn")
	}
	if cfg.API.RequestsPerMinute > 120 {
		warnings = append(warnings, "requests_per_minute above 120 may trip the service's own limits")
	}

	if len(warnings) > 0 {
		ui.PrintWarning("Configuration warnings:")
		for _, w := range warnings {
			fmt.Printf("  - %s\n", w)
		}
		fmt.Println()
	}

	ui.PrintSuccess("Configuration is valid")

	fmt.Println("\nConfiguration summary:")
	fmt.Printf("  Service: %s\n", cfg.API.BaseURL)
	fmt.Printf("  Batch size: %d\n", cfg.Pipeline.BatchSize)
	fmt.Printf("  Max pages: %d\n", cfg.Pipeline.MaxPages)
	fmt.Printf("  Rate limit: %d submissions/minute\n", cfg.API.RequestsPerMinute)
	fmt.Printf("  UI mode: %s\n", cfg.UI.Mode)
	fmt.Printf("  Log level: %s\n", cfg.Logging.Level)
}

func runSetBaseURL(cmd *cobra.Command, args []string) {
	a := mustLoadApp(appOptions{})

	var raw string
	if len(args) == 1 {
		raw = args[0]
	}
	if err := a.tokens.SetBaseURL(raw); err != nil {
		fatal("Failed to save service URL", err)
	}

	current, err := a.tokens.BaseURL()
	if err != nil {
		fatal("Failed to read service URL", err)
	}
	ui.PrintSuccess("Service URL: " + current)
}
