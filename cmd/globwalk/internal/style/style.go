// Package style holds the lipgloss styles used by the globwalk CLI's
// output, and the terminal detection that decides whether to apply them.
package style

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sys/unix"
)

// Styles holds the lipgloss styles for CLI output.
type Styles struct {
	Prefix  lipgloss.Style // the static prefix portion of a compiled program
	Match   lipgloss.Style // a yielded path that matched
	ErrPath lipgloss.Style // the path in a walk error
	ErrMsg  lipgloss.Style // the error text itself
	Dim     lipgloss.Style // secondary/diagnostic text
}

// New returns the default color styles.
func New() Styles {
	return Styles{
		Prefix:  lipgloss.NewStyle().Foreground(lipgloss.Color("6")), // cyan
		Match:   lipgloss.NewStyle().Foreground(lipgloss.Color("2")), // green
		ErrPath: lipgloss.NewStyle().Foreground(lipgloss.Color("5")), // magenta
		ErrMsg:  lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true), // bold red
		Dim:     lipgloss.NewStyle().Faint(true),
	}
}

// None returns styles with no coloring, for non-terminal output.
func None() Styles {
	return Styles{}
}

// IsTerminal checks whether fd is a terminal by asking for its termios
// settings via ioctl.
func IsTerminal(fd uintptr) bool {
	_, err := unix.IoctlGetTermios(int(fd), unix.TCGETS)
	return err == nil
}

// StdoutIsTerminal reports whether stdout is a terminal.
func StdoutIsTerminal() bool {
	return IsTerminal(os.Stdout.Fd())
}

// For returns New() when out should be colored, None() otherwise.
func For(colorMode string) Styles {
	switch colorMode {
	case "always":
		return New()
	case "never":
		return None()
	default:
		if StdoutIsTerminal() {
			return New()
		}
		return None()
	}
}
