package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/wasmc"
	"github.com/wippyai/wasmc/engine"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	funcStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

const defaultSource = "main() {\n  return 42;\n}\n"

type outputView int

const (
	viewText outputView = iota
	viewHex
	viewExports
	numViews
)

func (v outputView) String() string {
	switch v {
	case viewText:
		return "text"
	case viewHex:
		return "hex"
	case viewExports:
		return "exports"
	}
	return "?"
}

type interactiveModel struct {
	err      error
	validErr error
	art      *wasmc.Artifacts
	filename string
	exports  []engine.Export
	editor   textarea.Model
	output   viewport.Model
	rev      int
	validRev int
	view     outputView
}

type validatedMsg struct {
	err     error
	exports []engine.Export
	rev     int
}

func newInteractiveModel(filename, src string) *interactiveModel {
	editor := textarea.New()
	editor.Placeholder = "main() { return 0; }"
	editor.ShowLineNumbers = true
	editor.CharLimit = 0
	editor.MaxHeight = 0
	editor.SetValue(src)
	editor.Focus()

	m := &interactiveModel{
		filename: filename,
		editor:   editor,
		output:   viewport.New(80, 20),
	}
	m.recompile()
	return m
}

func (m *interactiveModel) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.validate())
}

// recompile rebuilds both forms from the editor contents and bumps the
// revision so that results of older async work are discarded.
func (m *interactiveModel) recompile() {
	m.rev++
	m.art, m.err = wasmc.Build(context.Background(), m.editor.Value())
	m.exports = nil
	m.validErr = nil
	m.refreshOutput()
}

func (m *interactiveModel) validate() tea.Cmd {
	if m.art == nil {
		return nil
	}
	bin, rev := m.art.Binary, m.rev
	return func() tea.Msg {
		exports, err := engine.Exports(context.Background(), bin)
		return validatedMsg{exports: exports, err: err, rev: rev}
	}
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "tab":
			m.view = (m.view + 1) % numViews
			m.refreshOutput()
			return m, nil

		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.output, cmd = m.output.Update(msg)
			return m, cmd
		}

		before := m.editor.Value()
		var cmd tea.Cmd
		m.editor, cmd = m.editor.Update(msg)
		if m.editor.Value() != before {
			m.recompile()
			return m, tea.Batch(cmd, m.validate())
		}
		return m, cmd

	case validatedMsg:
		if msg.rev != m.rev {
			return m, nil
		}
		m.validRev = msg.rev
		m.exports = msg.exports
		m.validErr = msg.err
		m.refreshOutput()
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

func (m *interactiveModel) resize(width, height int) {
	half := width / 2
	if half < 20 {
		half = 20
	}
	body := height - 6
	if body < 5 {
		body = 5
	}
	m.editor.SetWidth(half - 2)
	m.editor.SetHeight(body)
	m.output.Width = width - half - 2
	m.output.Height = body
	m.refreshOutput()
}

func (m *interactiveModel) refreshOutput() {
	m.output.SetContent(m.renderOutput())
}

func (m *interactiveModel) renderOutput() string {
	if m.err != nil {
		return errorStyle.Render(m.err.Error())
	}
	if m.art == nil {
		return ""
	}
	switch m.view {
	case viewHex:
		return hex.Dump(m.art.Binary)
	case viewExports:
		return m.renderExports()
	default:
		return m.art.Text
	}
}

func (m *interactiveModel) renderExports() string {
	if m.validErr != nil {
		return errorStyle.Render(fmt.Sprintf("wazero rejected module: %v", m.validErr))
	}
	if m.validRev != m.rev {
		return helpStyle.Render("validating...")
	}
	var b strings.Builder
	b.WriteString(resultStyle.Render("module validated"))
	b.WriteString("\n\n")
	for _, e := range m.exports {
		b.WriteString(funcStyle.Render(e.Name))
		b.WriteString(" ")
		b.WriteString(typeStyle.Render(fmt.Sprintf("(%s) -> %s",
			strings.TrimSuffix(strings.Repeat("i32, ", e.Params), ", "),
			strings.Repeat("i32", e.Results))))
		b.WriteString("\n")
	}
	return b.String()
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("wasmc"))
	b.WriteString(" ")
	if m.filename != "" {
		b.WriteString(m.filename)
		b.WriteString(" ")
	}
	for v := outputView(0); v < numViews; v++ {
		label := " " + v.String() + " "
		if v == m.view {
			b.WriteString(selectedStyle.Render(label))
		} else {
			b.WriteString(label)
		}
	}
	b.WriteString("\n\n")

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		m.editor.View(),
		"  ",
		m.output.View(),
	))
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("tab switch view • pgup/pgdown scroll • esc quit"))

	return b.String()
}

func runInteractive(filename, src string) error {
	if filename != "" && src == "" {
		data, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("read file: %w", err)
		}
		src = string(data)
	}
	if src == "" {
		src = defaultSource
	}
	p := tea.NewProgram(newInteractiveModel(filename, src), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
