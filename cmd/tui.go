package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/suderio/rpdice/internal/macros"
	"github.com/suderio/rpdice/internal/session"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1).
			MarginBottom(1)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#999999"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F25D94"))

	stateBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#874BFD")).
			Padding(0, 2)

	logBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#04B575")).
			Padding(0, 1)

	autocompleteStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("#F25D94"))
)

const welcome = "Welcome to rpdice!\nType q or press esc to quit."

type suggestion string

func (s suggestion) Title() string       { return string(s) }
func (s suggestion) Description() string { return "" }
func (s suggestion) FilterValue() string { return string(s) }

type replModel struct {
	app         *session.Session
	textInput   textinput.Model
	viewport    viewport.Model
	suggestions list.Model
	history     []string
	historyIdx  int
	logContent  string
	width       int
	height      int
	showList    bool
	quitting    bool
}

func newREPLModel(app *session.Session) replModel {
	ti := textinput.New()
	ti.Placeholder = "Enter roll (e.g., 4d6kh3, d20+5ra, @macro)..."
	ti.Focus()
	ti.CharLimit = 256
	ti.Width = 60

	vp := viewport.New(0, 0)
	vp.SetContent(welcome)

	// Configure a minimalist list for autocomplete
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetHeight(1)
	delegate.SetSpacing(0)
	sugList := list.New([]list.Item{}, delegate, 50, 7)
	sugList.SetShowTitle(false)
	sugList.SetShowStatusBar(false)
	sugList.SetFilteringEnabled(false) // We filter manually
	sugList.SetShowHelp(false)

	return replModel{
		app:         app,
		textInput:   ti,
		viewport:    vp,
		suggestions: sugList,
		history:     []string{},
		historyIdx:  -1,
		logContent:  welcome,
	}
}

func (m *replModel) Init() tea.Cmd {
	return textinput.Blink
}

// completions returns the entries offered for the current input.
func (m *replModel) completions(val string) []list.Item {
	var items []list.Item
	if val == "" {
		return items
	}

	base := []string{`?roll("`, "q", "s"}
	for _, name := range m.app.Macros().Names() {
		base = append(base, macros.Prefix+name)
	}

	for _, c := range base {
		if strings.HasPrefix(strings.ToLower(c), strings.ToLower(val)) && len(val) < len(c) {
			items = append(items, suggestion(c))
		}
	}
	return items
}

func (m *replModel) updateSuggestions() {
	items := m.completions(m.textInput.Value())
	m.suggestions.SetItems(items)
	m.showList = len(items) > 0
	if m.showList {
		h := min(len(items), 10)
		m.suggestions.SetHeight(max(h, 4))
		m.suggestions.ResetSelected()
	}
}

// submit runs a line through the session and appends its output to the log.
func (m *replModel) submit(val string) tea.Cmd {
	if len(m.history) == 0 || m.history[len(m.history)-1] != val {
		m.history = append(m.history, val)
	}
	m.historyIdx = -1
	m.textInput.SetValue("")
	m.updateSuggestions()

	reply := m.app.Execute(val)
	if reply.Quit {
		m.quitting = true
		return tea.Quit
	}

	m.logContent += fmt.Sprintf("\n\n> %s\n", val)
	for _, line := range reply.Lines {
		m.logContent += line + "\n"
	}
	if reply.Err != nil {
		m.logContent += errorStyle.Render(reply.ErrLine)
	}

	m.viewport.SetContent(m.logContent)
	m.viewport.GotoBottom()
	return nil
}

func (m *replModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		lsCmd tea.Cmd
		exCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.quitting = true
			return m, tea.Quit

		case tea.KeyUp:
			if m.showList {
				m.suggestions, lsCmd = m.suggestions.Update(msg)
			} else if len(m.history) > 0 {
				if m.historyIdx == -1 {
					m.historyIdx = len(m.history) - 1
				} else if m.historyIdx > 0 {
					m.historyIdx--
				}
				m.textInput.SetValue(m.history[m.historyIdx])
				m.updateSuggestions()
			}

		case tea.KeyDown:
			if m.showList {
				m.suggestions, lsCmd = m.suggestions.Update(msg)
			} else if len(m.history) > 0 && m.historyIdx != -1 {
				if m.historyIdx < len(m.history)-1 {
					m.historyIdx++
					m.textInput.SetValue(m.history[m.historyIdx])
				} else {
					m.historyIdx = -1
					m.textInput.SetValue("")
				}
				m.updateSuggestions()
			}

		case tea.KeyTab:
			if m.showList {
				if i, ok := m.suggestions.SelectedItem().(suggestion); ok {
					m.textInput.SetValue(string(i))
					m.textInput.SetCursor(len(string(i)))
					m.updateSuggestions()
				}
			}

		case tea.KeyEnter:
			if val := strings.TrimSpace(m.textInput.Value()); val != "" {
				exCmd = m.submit(val)
			}

		default:
			// Normal typing
			m.textInput, tiCmd = m.textInput.Update(msg)
			m.updateSuggestions()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width - 4
		m.suggestions.SetWidth(msg.Width - 6)
	}

	m.viewport, vpCmd = m.viewport.Update(msg)

	// Total fixed overhead: title + state + input + listArea + info + borders
	listAreaHeight := 0
	if m.showList {
		listAreaHeight = m.suggestions.Height() + 2
	}
	overhead := lipgloss.Height(titleStyle.Render(" ")) +
		lipgloss.Height(m.renderState()) +
		1 + listAreaHeight +
		lipgloss.Height(infoStyle.Render(" ")) + 4
	m.viewport.Height = max(m.height-overhead, 4)

	return m, tea.Batch(tiCmd, vpCmd, lsCmd, exCmd)
}

func (m *replModel) renderState() string {
	gen := m.app.Generator()
	stateView := fmt.Sprintf("Seed: %d\nLast total: %d\nDie sizes drawn: %d   Macros: %d",
		gen.Seed(), m.app.Last(), gen.CachedSizes(), m.app.Macros().Len())
	return stateBoxStyle.Width(max(m.width-4, 20)).Render(stateView)
}

func (m *replModel) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 {
		return "Initializing..."
	}

	title := titleStyle.Render(" rpdice ")
	logBox := logBoxStyle.Width(m.width - 4).Render(m.viewport.View())

	inputArea := m.textInput.View()
	if m.showList {
		inputArea = fmt.Sprintf("%s\n%s", inputArea, autocompleteStyle.Render(m.suggestions.View()))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		m.renderState(),
		logBox,
		inputArea,
		infoStyle.Render("(esc to quit, tab to complete, up/down history)"),
	)
}

// RunTUI starts the full-screen front-end over an existing session.
func RunTUI(app *session.Session) error {
	m := newREPLModel(app)
	p := tea.NewProgram(&m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Start the full-screen interactive shell",
	Long:  `Same commands as the line shell, with history, macro completion and a live view of the generator state.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Log lines would tear through the alternate screen.
		app, _, err := newSession(io.Discard)
		if err != nil {
			return err
		}
		return RunTUI(app)
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
