package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"talentpipe/pkg/auth"
	"talentpipe/pkg/ui"
)

// authCmd represents the auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the service login",
	Long: `Log in to the profile-processing service and manage the stored token.

The token is stored using:
  - System keychain (when available)
  - Encrypted file with PBKDF2 key derivation
  - TALENTPIPE_TOKEN environment variable (read only)

Never share your token or config files!`,
}

var loginCmd = &cobra.Command{
	Use:   "login [email]",
	Short: "Log in and store the token",
	Long: `Log in with your service email and password. The password is read
without echo and is never stored; only the returned token is kept.`,
	Example: `  # Interactive login
  talentpipe auth login

  # Login with email
  talentpipe auth login jane@example.com`,
	Args: cobra.MaximumNArgs(1),
	Run:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored token",
	Run:   runLogout,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show login state, service URL and selected project",
	Run:   runStatus,
}

var tokenCmd = &cobra.Command{
	Use:   "token [token]",
	Short: "Print the stored token, or store one directly",
	Long: `Without arguments, print the stored token (masked unless --reveal).
With an argument, store it as the token, for example one copied from
another machine.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runToken,
}

var revealToken bool

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(statusCmd)
	authCmd.AddCommand(tokenCmd)

	tokenCmd.Flags().BoolVar(&revealToken, "reveal", false, "print the full token")
}

func runLogin(cmd *cobra.Command, args []string) {
	a := mustLoadApp(appOptions{})
	reader := bufio.NewReader(os.Stdin)

	var email string
	if len(args) > 0 {
		email = strings.TrimSpace(args[0])
	}
	if email == "" {
		fmt.Print("Email: ")
		input, err := reader.ReadString('\n')
		if err != nil {
			fatal("Failed to read email", err)
		}
		email = strings.TrimSpace(input)
	}

	fmt.Print("Password: ")
	password, err := readPassword(reader)
	if err != nil {
		fatal("Failed to read password", err)
	}
	if email == "" || password == "" {
		fatal("Please enter both email and password", nil)
	}

	ui.PrintInfo("Logging in to", a.client.BaseURL())
	resp, err := a.client.Login(cmd.Context(), email, password)
	if err != nil {
		fatal("Login failed", err)
	}

	if err := a.tokens.SetToken(resp.Token, email); err != nil {
		fatal("Failed to store token", err)
	}

	name := email
	if resp.User != nil && resp.User.Name != "" {
		name = resp.User.Name
	}
	ui.PrintSuccess("Logged in as " + name)

	if p, _ := a.projects.SelectedProject(); p.IsZero() {
		fmt.Println("\nNext, choose where profiles go:")
		fmt.Println("  $ talentpipe project select")
	}
}

func runLogout(cmd *cobra.Command, args []string) {
	a := mustLoadApp(appOptions{})
	if err := a.tokens.ClearToken(); err != nil {
		fatal("Failed to remove token", err)
	}
	ui.PrintSuccess("Logged out")
}

func runStatus(cmd *cobra.Command, args []string) {
	a := mustLoadApp(appOptions{})

	ui.PrintInfo("Service", a.client.BaseURL())

	session, err := a.tokens.Session()
	switch {
	case errors.Is(err, auth.ErrCredentialsNotFound):
		ui.PrintWarning("Not logged in. Run 'talentpipe auth login'.")
	case err != nil:
		fatal("Failed to read token", err)
	default:
		who := session.Email
		if who == "" {
			who = "(token only)"
		}
		ui.PrintInfo("Logged in as", who)
		ui.PrintInfo("Token", auth.MaskToken(session.Token))
		if !session.LastModified.IsZero() {
			ui.PrintInfo("Since", session.LastModified.Format("2006-01-02 15:04:05"))
		}
	}

	project, err := a.projects.SelectedProject()
	if err != nil {
		fatal("Failed to read selected project", err)
	}
	if project.IsZero() {
		ui.PrintWarning("No project selected. Run 'talentpipe project select'.")
		return
	}
	ui.PrintInfo("Project", fmt.Sprintf("%s (%s)", project.Name, project.ID))
}

func runToken(cmd *cobra.Command, args []string) {
	a := mustLoadApp(appOptions{})

	if len(args) == 1 {
		if err := a.tokens.SetToken(args[0], ""); err != nil {
			fatal("Failed to store token", err)
		}
		ui.PrintSuccess("Token stored")
		return
	}

	token, err := a.tokens.Token()
	if err != nil {
		fatal("Failed to read token", err)
	}
	if token == "" {
		fatal("Not logged in", nil)
	}
	if !revealToken {
		token = auth.MaskToken(token)
	}
	fmt.Println(token)
}

// readPassword reads a password from stdin without echoing
func readPassword(reader *bufio.Reader) (string, error) {
	if term.IsTerminal(int(syscall.Stdin)) {
		password, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err == nil {
			return string(password), nil
		}
	}

	input, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(input), nil
}

// requireLogin exits when no token is stored
func requireLogin(a *app) {
	token, err := a.tokens.Token()
	if err != nil {
		fatal("Failed to read token", err)
	}
	if token == "" {
		fatal("Not authenticated. Please log in with `talentpipe auth login`.", nil)
	}
}
