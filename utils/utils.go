package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/fatih/color"
	"github.com/mitchellh/go-homedir"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"
)

func CopyToClipboard(rendered string) error {
	err := clipboard.WriteAll(rendered)
	if err != nil {
		return fmt.Errorf("failed to copy to clipboard: %v", err)
	}
	return nil
}

func WriteToFile(outputPath string, rendered string) error {
	err := os.WriteFile(outputPath, []byte(rendered), 0644)
	if err != nil {
		return fmt.Errorf("failed to write to file: %v", err)
	}
	return nil
}

func SetupSpinner(message string) *progressbar.ProgressBar {
	return progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(message),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}

func Label(path string) string {
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "."
		}
		return wd
	}
	return path
}

// EnsureConfigDirectories creates the user config tree
// (~/.config/outline plus the patterns/templates subdirectories) if it
// does not exist yet.
func EnsureConfigDirectories() error {
	home, err := homedir.Dir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	dirs := []string{
		filepath.Join(home, ".config", "outline"),
		filepath.Join(home, ".config", "outline", "patterns", "exclude"),
		filepath.Join(home, ".config", "outline", "patterns", "templates"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return nil
}

// FormatNumber renders n with thousands separators (1234567 -> "1,234,567").
func FormatNumber(n int) string {
	s := strconv.Itoa(n)
	if len(s) <= 3 {
		return s
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	return strings.Join(parts, ",")
}

// GetTerminalWidth returns the current terminal width, defaulting to 80
// columns when stdout is not a terminal.
func GetTerminalWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return 80
	}
	return w
}

func PrintColouredMessage(symbol string, message string, messageColor color.Attribute) {
	white := color.New(color.FgWhite, color.Bold).SprintFunc()
	colouredMessage := color.New(messageColor).SprintFunc()

	fmt.Printf("%s%s%s %s\n", white("["), white(symbol), white("]"), colouredMessage(message))
}
