package ui

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrWizardCancelled is returned when the user quits the wizard early.
var ErrWizardCancelled = errors.New("setup cancelled")

// WizardResult holds answers collected by the setup wizard.
type WizardResult struct {
	Endpoint  string
	ModelURL  string
	ModelName string
	Output    string
	APIKey    string // empty when the user skipped the step
}

// --- Bubble Tea model ---

type wizardStep int

const (
	stepEndpoint wizardStep = iota
	stepModelURL
	stepModelName
	stepOutput
	stepAPIKey
	stepDone
)

type wizardModel struct {
	step      wizardStep
	result    WizardResult
	cursor    int
	choices   []string
	input     string
	cancelled bool
}

var outputs = []string{"table", "json"}

// initialWizard starts the wizard with defaults pre-filled; pressing Enter
// on an empty input keeps the default.
func initialWizard(defaults WizardResult) wizardModel {
	defaults.APIKey = ""
	return wizardModel{step: stepEndpoint, result: defaults}
}

func (m wizardModel) Init() tea.Cmd { return nil }

func (m wizardModel) inputMode() bool { return m.step != stepOutput }

func (m wizardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "esc":
		m.cancelled = true
		return m, tea.Quit

	case "enter":
		if m.inputMode() {
			m.applyInput()
		} else {
			m.applyChoice()
		}
		m.advance()

	case "up", "k":
		if m.inputMode() {
			m.appendKey(key)
		} else if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.inputMode() {
			m.appendKey(key)
		} else if m.cursor < len(m.choices)-1 {
			m.cursor++
		}

	case "backspace":
		if m.inputMode() && len(m.input) > 0 {
			r := []rune(m.input)
			m.input = string(r[:len(r)-1])
		}

	default:
		if m.inputMode() {
			m.appendKey(key)
		}
	}

	if m.step == stepDone {
		return m, tea.Quit
	}
	return m, nil
}

func (m *wizardModel) appendKey(key tea.KeyMsg) {
	switch key.Type {
	case tea.KeyRunes:
		m.input += string(key.Runes)
	case tea.KeySpace:
		m.input += " "
	}
}

func (m *wizardModel) advance() {
	m.step++
	m.input = ""
	m.cursor = 0
	if m.step == stepOutput {
		m.choices = outputs
		for i, o := range outputs {
			if o == m.result.Output {
				m.cursor = i
			}
		}
	} else {
		m.choices = nil
	}
}

func (m *wizardModel) applyChoice() {
	if m.cursor < len(m.choices) {
		m.result.Output = m.choices[m.cursor]
	}
}

func (m *wizardModel) applyInput() {
	// Sanitize: strip whitespace and accidental brackets from paste.
	v := strings.TrimSpace(m.input)
	v = strings.Trim(v, "[]")
	if v == "" {
		return
	}
	switch m.step {
	case stepEndpoint:
		m.result.Endpoint = v
	case stepModelURL:
		m.result.ModelURL = v
	case stepModelName:
		m.result.ModelName = v
	case stepAPIKey:
		m.result.APIKey = v
	}
}

func (m wizardModel) View() string {
	var s string

	switch m.step {
	case stepEndpoint:
		s = renderInput("Node API endpoint", m.result.Endpoint, m.input)
	case stepModelURL:
		s = renderInput("Model server URL", m.result.ModelURL, m.input)
	case stepModelName:
		s = renderInput("Model name", m.result.ModelName, m.input)
	case stepOutput:
		s = renderMenu("Select output format:", m.choices, m.cursor)
	case stepAPIKey:
		s = StyleTitle.Render("Node API key (optional)") + "\n\n"
		s += StyleMeta.Render("Stored in the OS keychain. Press Enter to skip:") + "\n"
		s += "> " + strings.Repeat("•", len([]rune(m.input))) + "█\n"
	case stepDone:
		s = Success("Setup complete!") + "\n"
	}

	return StyleBorder.Render(s) + "\n"
}

func renderInput(title, current, input string) string {
	s := StyleTitle.Render(title) + "\n\n"
	s += StyleMeta.Render(fmt.Sprintf("Current: %s (press Enter to keep)", current)) + "\n"
	s += "> " + StyleHash.Render(input) + "█\n"
	return s
}

func renderMenu(title string, items []string, cursor int) string {
	s := StyleTitle.Render(title) + "\n\n"
	for i, item := range items {
		icon := "  "
		style := lipgloss.NewStyle().Foreground(ColorValue)
		if i == cursor {
			icon = "▸ "
			style = StyleSelected
		}
		s += icon + style.Render(item) + "\n"
	}
	s += "\n" + StyleMeta.Render("↑/↓ navigate · Enter select · Esc quit")
	return s
}

// RunWizard launches the interactive setup wizard, seeded with the current
// configuration, and returns the collected answers.
func RunWizard(defaults WizardResult) (*WizardResult, error) {
	p := tea.NewProgram(initialWizard(defaults))
	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("wizard error: %w", err)
	}
	fm := final.(wizardModel)
	if fm.cancelled {
		return nil, ErrWizardCancelled
	}
	result := fm.result
	return &result, nil
}
