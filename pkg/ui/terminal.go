package ui

import (
	"fmt"
	"io"
	"os"
)

// ASCIILogo is printed at the top of interactive commands
const ASCIILogo = `
  ╔════════════════════════════════════════════════╗
  ║ ▀█▀ ▄▀█ █   █▀▀ █▄ █ ▀█▀ █▀█ █ █▀█ █▀▀         ║
  ║  █  █▀█ █▄▄ ██▄ █ ▀█  █  █▀▀ █ █▀▀ ██▄         ║
  ║      RECRUITER PIPELINE SCRAPER v1.3.5         ║
  ╚════════════════════════════════════════════════╝
`

// Out is where the Print helpers write
var Out io.Writer = os.Stdout

// Color functions for terminal output
var (
	Cyan    = colorize("\033[36m%s\033[0m")
	Yellow  = colorize("\033[33m%s\033[0m")
	Red     = colorize("\033[31m%s\033[0m")
	Green   = colorize("\033[32m%s\033[0m")
	Magenta = colorize("\033[35m%s\033[0m")
	Dim     = colorize("\033[2m%s\033[0m")
)

func colorize(colorString string) func(string) string {
	return func(text string) string {
		return fmt.Sprintf(colorString, text)
	}
}

// PrintLogo prints the ASCII logo with color
func PrintLogo() {
	fmt.Fprint(Out, Cyan(ASCIILogo))
}

// PrintError prints an error message in red
func PrintError(msg string, err error) {
	if err != nil {
		fmt.Fprintln(Out, Red(fmt.Sprintf("%s: %v", msg, err)))
		return
	}
	fmt.Fprintln(Out, Red(msg))
}

// PrintSuccess prints a success message in green
func PrintSuccess(msg string) {
	fmt.Fprintln(Out, Green(msg))
}

// PrintInfo prints a label and value pair
func PrintInfo(label string, value string) {
	fmt.Fprintf(Out, "%s: %s\n", Cyan(label), Yellow(value))
}

// PrintWarning prints a warning message in yellow
func PrintWarning(msg string) {
	fmt.Fprintln(Out, Yellow(msg))
}

// PrintHighlight prints a highlighted message in magenta
func PrintHighlight(msg string) {
	fmt.Fprintln(Out, Magenta(msg))
}
