package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	replPrompt         = "xell> "
	replContinuePrompt = "....> "
)

// theme holds the REPL palette. Colors follow the terminal's light or dark
// background through lipgloss.AdaptiveColor.
var theme = struct {
	prompt, result, err, muted, header, key, name, title, panel lipgloss.Style
}{
	prompt: lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#5B21B6", Dark: "#A78BFA"}).Bold(true),
	result: lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#047857", Dark: "#34D399"}),
	err:    lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#F87171"}),
	muted:  lipgloss.NewStyle().Faint(true),
	header: lipgloss.NewStyle().Bold(true).Reverse(true).Padding(0, 1),
	key:    lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#FBBF24"}),
	name:   lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#FBBF24"}).Bold(true),
	title:  lipgloss.NewStyle().Bold(true).Underline(true),
	panel:  lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).PaddingLeft(1),
}

// replHelp documents both REPL front ends.
var replHelp = []struct {
	key  string
	desc string
}{
	{":help", "show or hide this list"},
	{":vars", "show or hide globals"},
	{":reset", "drop every global and start over"},
	{":clear", "clear the screen"},
	{":quit", "leave the REPL"},
	{"tab", "complete the word before the cursor"},
	{"up/down", "walk input history"},
}

type historyEntry struct {
	input  string
	output string
	isErr  bool
	// partial entries opened or extended a block that is not closed yet.
	partial bool
	// continued entries were typed at the continuation prompt.
	continued bool
}

type replModel struct {
	textInput   textinput.Model
	session     *replSession
	history     []historyEntry
	cmdHistory  []string
	historyIdx  int
	width       int
	height      int
	showHelp    bool
	showVars    bool
	quitting    bool
	initialized bool
}

type keyMap struct {
	Prev, Next, Submit, Quit, Clear, Complete, Vars, Help key.Binding
}

var keys = keyMap{
	Prev:     key.NewBinding(key.WithKeys("up", "ctrl+p"), key.WithHelp("up", "previous")),
	Next:     key.NewBinding(key.WithKeys("down", "ctrl+n"), key.WithHelp("down", "next")),
	Submit:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "run")),
	Quit:     key.NewBinding(key.WithKeys("ctrl+c", "ctrl+d"), key.WithHelp("ctrl+d", "quit")),
	Clear:    key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "clear")),
	Complete: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "complete")),
	Vars:     key.NewBinding(key.WithKeys("ctrl+v"), key.WithHelp("ctrl+v", "vars")),
	Help:     key.NewBinding(key.WithKeys("ctrl+k"), key.WithHelp("ctrl+k", "help")),
}

// footerBindings are listed under the input line.
var footerBindings = []key.Binding{keys.Help, keys.Vars, keys.Clear, keys.Quit}

func newREPLModel(session *replSession) replModel {
	ti := textinput.New()
	ti.Placeholder = "type a statement..."
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60
	ti.PromptStyle = theme.prompt
	ti.Prompt = replPrompt

	return replModel{
		textInput:  ti,
		session:    session,
		history:    make([]historyEntry, 0),
		cmdHistory: make([]string, 0),
		historyIdx: -1,
	}
}

func (m replModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tea.EnterAltScreen)
}

func (m replModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.textInput.Width = max(msg.Width-10, 10)
		m.initialized = true
		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, keys.Clear):
			m.history = nil
			return m, nil
		case key.Matches(msg, keys.Vars):
			m.showVars = !m.showVars
			return m, nil
		case key.Matches(msg, keys.Help):
			m.showHelp = !m.showHelp
			return m, nil
		case key.Matches(msg, keys.Prev):
			return m.recall(-1), nil
		case key.Matches(msg, keys.Next):
			return m.recall(1), nil
		case key.Matches(msg, keys.Complete):
			return m.handleAutocomplete(), nil
		case key.Matches(msg, keys.Submit):
			return m.submit(strings.TrimSpace(m.textInput.Value()))
		}
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

// recall moves through submitted input. historyIdx -1 is the fresh line.
func (m replModel) recall(step int) replModel {
	if len(m.cmdHistory) == 0 {
		return m
	}
	switch {
	case m.historyIdx == -1 && step < 0:
		m.historyIdx = len(m.cmdHistory) - 1
	case m.historyIdx == -1:
		return m
	default:
		m.historyIdx = max(m.historyIdx+step, 0)
	}
	if m.historyIdx >= len(m.cmdHistory) {
		m.historyIdx = -1
		m.textInput.SetValue("")
	} else {
		m.textInput.SetValue(m.cmdHistory[m.historyIdx])
	}
	m.textInput.CursorEnd()
	return m
}

func (m replModel) submit(input string) (replModel, tea.Cmd) {
	pending := m.session.pendingInput()
	if input == "" && !pending {
		return m, nil
	}
	m.historyIdx = -1

	if strings.HasPrefix(input, ":") && !pending {
		var cmd tea.Cmd
		m, cmd = m.handleCommand(input)
		m.textInput.SetValue("")
		return m, cmd
	}

	output, isErr, more := m.session.evaluate(input)
	m.history = append(m.history, historyEntry{
		input:     input,
		output:    output,
		isErr:     isErr,
		partial:   more,
		continued: pending,
	})
	if input != "" {
		m.cmdHistory = append(m.cmdHistory, input)
	}
	m.textInput.Prompt = replPrompt
	if more {
		m.textInput.Prompt = replContinuePrompt
	}
	m.textInput.SetValue("")
	return m, nil
}

func (m replModel) handleCommand(input string) (replModel, tea.Cmd) {
	name := strings.Fields(input)[0]
	switch name {
	case ":quit", ":q":
		m.quitting = true
		return m, tea.Quit
	case ":help", ":h":
		m.showHelp = !m.showHelp
	case ":vars", ":v":
		m.showVars = !m.showVars
	case ":clear", ":c":
		m.history = nil
	case ":reset", ":r":
		m.session.reset()
		m.textInput.Prompt = replPrompt
		m.history = append(m.history, historyEntry{input: input, output: "Environment reset"})
	default:
		m.history = append(m.history, historyEntry{input: input, output: "Unknown command: " + name, isErr: true})
	}
	return m, nil
}

func (m replModel) handleAutocomplete() replModel {
	input := m.textInput.Value()
	if input == "" {
		return m
	}
	lastWord := input[strings.LastIndexFunc(input, func(r rune) bool {
		return !isWordRune(r)
	})+1:]
	if lastWord == "" {
		return m
	}

	completions := m.session.completions(lastWord)
	if len(completions) == 1 {
		prefix := strings.TrimSuffix(input, lastWord)
		m.textInput.SetValue(prefix + completions[0])
		m.textInput.CursorEnd()
	} else if len(completions) > 1 {
		m.history = append(m.history, historyEntry{
			output: "Completions: " + strings.Join(completions, ", "),
		})
	}
	return m
}

func (m replModel) View() string {
	switch {
	case !m.initialized:
		return "Loading..."
	case m.quitting:
		return theme.muted.Render("bye") + "\n"
	}

	var b strings.Builder
	b.WriteString(theme.header.Render("xell") + " " + theme.muted.Render("interactive") + "\n\n")

	vars := m.session.vars()
	reserved := 6
	if m.showHelp {
		reserved += len(replHelp) + 1
	}
	if m.showVars {
		reserved += max(len(vars), 1) + 1
	}
	for _, entry := range m.visibleHistory(m.height - reserved) {
		if entry.input != "" || entry.partial {
			b.WriteString(theme.muted.Render(promptFor(entry)) + entry.input + "\n")
		}
		if entry.partial {
			continue
		}
		switch {
		case entry.isErr:
			b.WriteString(theme.err.Render(entry.output) + "\n")
		case entry.output != "":
			b.WriteString(theme.result.Render(entry.output) + "\n")
		}
	}
	b.WriteString("\n")

	if m.showVars {
		b.WriteString(renderVarsPanel(vars) + "\n")
	}
	if m.showHelp {
		b.WriteString(renderHelpPanel() + "\n")
	}

	b.WriteString(m.textInput.View() + "\n\n")
	parts := make([]string, 0, len(footerBindings))
	for _, binding := range footerBindings {
		h := binding.Help()
		parts = append(parts, theme.key.Render(h.Key)+" "+theme.muted.Render(h.Desc))
	}
	b.WriteString(strings.Join(parts, "  "))
	return b.String()
}

// visibleHistory returns the tail of the history that fits in rows lines.
func (m replModel) visibleHistory(rows int) []historyEntry {
	if rows < 1 {
		rows = 1
	}
	if len(m.history) <= rows {
		return m.history
	}
	return m.history[len(m.history)-rows:]
}

func promptFor(entry historyEntry) string {
	if entry.continued {
		return replContinuePrompt
	}
	return replPrompt
}

func renderVarsPanel(vars []replVar) string {
	lines := []string{theme.title.Render("globals")}
	if len(vars) == 0 {
		lines = append(lines, theme.muted.Render("(none)"))
	}
	for _, v := range vars {
		lines = append(lines, theme.name.Render(v.name)+" = "+v.value)
	}
	return theme.panel.Render(strings.Join(lines, "\n"))
}

func renderHelpPanel() string {
	lines := []string{theme.title.Render("commands")}
	for _, h := range replHelp {
		lines = append(lines, theme.key.Render(fmt.Sprintf("%-8s", h.key))+" "+theme.muted.Render(h.desc))
	}
	return theme.panel.Render(strings.Join(lines, "\n"))
}

func runREPL(session *replSession) error {
	p := tea.NewProgram(newREPLModel(session), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
