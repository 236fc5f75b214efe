package prompt

import (
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

type Manager struct {
	prompt  string
	colored bool
}

func New(prompt string) *Manager {
	return &Manager{
		prompt: prompt,
		// The prompt goes to stderr, so color only when that is a tty.
		colored: term.IsTerminal(int(os.Stderr.Fd())),
	}
}

func (m *Manager) Generate() string {
	if m.colored {
		return color.New(color.FgGreen, color.Bold).Sprint(m.prompt)
	}
	return m.prompt
}
