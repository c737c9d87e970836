package main

import (
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"talentpipe/pkg/logger"
	"talentpipe/pkg/ui"
)

var (
	// Version information
	version   = logger.Version
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile string
	logLevel   string
	baseURL    string
	quiet      bool
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "talentpipe",
	Short: "Collect recruiter search results and send them for processing",
	Long: `talentpipe walks LinkedIn Recruiter search results in a Chrome session you
are logged into, collects every candidate profile on each page and submits
them in paced batches to the profile-processing service.

Features:
  - Pipeline mode: scroll, extract and paginate through up to 10 result pages
  - Single and bulk profile submission
  - Token storage in the system keychain or an encrypted file
  - Full-screen progress view with a stop key
  - Desktop notification when a run finishes`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if quiet {
			ui.Out = io.Discard
		}
		switch cmd.Name() {
		case "version", "help", "token":
		default:
			ui.PrintLogo()
		}
	},
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is .talentpipe.yaml or ~/.config/talentpipe/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "profile-processing service URL")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress all output except errors")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print every status line instead of a progress bar")

	rootCmd.SetVersionTemplate(`talentpipe {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// versionCmd prints the version; same output as --version
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("talentpipe %s\n", rootCmd.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
