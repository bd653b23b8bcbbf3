package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ecosnap/ecosnap/internal/cli"
	"github.com/ecosnap/ecosnap/internal/engine"
	"github.com/ecosnap/ecosnap/internal/model"
)

// View represents the current view mode.
type View int

const (
	ViewFlow View = iota
	ViewHistory
	ViewDetail
	ViewConfirmClear
	ViewHelp
)

// historyItem adapts a classification record to the bubbles list.
type historyItem struct {
	record model.ClassificationRecord
}

func (i historyItem) Title() string {
	return string(i.record.Category)
}

func (i historyItem) Description() string {
	ts := time.UnixMilli(i.record.Timestamp).Format("2006-01-02 15:04")
	if i.record.Confidence != nil {
		return fmt.Sprintf("%s · %.0f%% confident", ts, *i.record.Confidence*100)
	}
	return ts
}

func (i historyItem) FilterValue() string {
	return string(i.record.Category) + " " + i.record.Reasoning
}

// Model holds the main TUI state.
type Model struct {
	eng         *engine.Engine
	keymap      KeyMap
	view        View
	prevView    View
	pathInput   textinput.Model
	spinner     spinner.Model
	historyList list.Model
	statusMsg   string
	statusErr   bool
	width       int
	height      int
	classifying bool
	quitting    bool
}

// newModel creates the initial model bound to an engine.
func newModel(eng *engine.Engine) Model {
	input := textinput.New()
	input.Placeholder = "path to an image file"
	input.Prompt = "🖼  "
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(cli.PrimaryColor)

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(cli.PrimaryColor).
		BorderLeftForeground(cli.PrimaryColor)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(cli.SubtleColor).
		BorderLeftForeground(cli.PrimaryColor)

	hl := list.New(nil, delegate, 0, 0)
	hl.Title = "Classification History"
	hl.SetShowStatusBar(false)
	hl.SetShowHelp(false)

	return Model{
		eng:         eng,
		keymap:      DefaultKeyMap(),
		view:        ViewFlow,
		pathInput:   input,
		spinner:     sp,
		historyList: hl,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tea.EnterAltScreen, textinput.Blink)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.historyList.SetSize(msg.Width-4, msg.Height-6)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if !m.classifying {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case imageLoadedMsg:
		if msg.err != nil {
			m.setError(fmt.Sprintf("Could not load %s: %v", msg.path, msg.err))
			return m, nil
		}
		m.pathInput.Blur()
		m.setStatus(fmt.Sprintf("Loaded %s. Press c to classify.", msg.path))
		return m, nil

	case classifyDoneMsg:
		m.classifying = false
		if msg.err != nil {
			m.setError(m.eng.Session().Err)
			return m, nil
		}
		m.setStatus("Classification complete. Press s to save it to history.")
		return m, nil

	case saveDoneMsg:
		if msg.err != nil {
			m.setError("Could not save the result to history.")
			return m, nil
		}
		m.setStatus("Saved to history.")
		cmd := m.refreshHistory()
		return m, cmd

	case historyChangedMsg:
		if msg.err != nil {
			m.setError(fmt.Sprintf("History update failed: %v", msg.err))
		}
		cmd := m.refreshHistory()
		return m, cmd

	case errorMsg:
		m.setError(msg.err.Error())
		return m, nil
	}

	return m.updateActiveComponent(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keymap.ForceQuit) {
		m.quitting = true
		return m, tea.Quit
	}

	switch m.view {
	case ViewFlow:
		return m.handleFlowKey(msg)
	case ViewHistory:
		return m.handleHistoryKey(msg)
	case ViewDetail:
		return m.handleDetailKey(msg)
	case ViewConfirmClear:
		return m.handleConfirmClearKey(msg)
	case ViewHelp:
		m.view = m.prevView
		return m, nil
	}
	return m, nil
}

func (m Model) handleFlowKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// While the user is typing a path every key belongs to the input.
	if m.pathInput.Focused() {
		switch {
		case key.Matches(msg, m.keymap.Select):
			path := m.pathInput.Value()
			if path == "" {
				return m, nil
			}
			return m, m.loadImage(path)
		case key.Matches(msg, m.keymap.Back):
			m.pathInput.SetValue("")
			return m, nil
		}
		var cmd tea.Cmd
		m.pathInput, cmd = m.pathInput.Update(msg)
		return m, cmd
	}

	if m.classifying {
		return m, nil
	}

	sess := m.eng.Session()
	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Help):
		m.prevView = m.view
		m.view = ViewHelp
		return m, nil

	case key.Matches(msg, m.keymap.ToggleHistory):
		m.view = ViewHistory
		cmd := m.refreshHistory()
		return m, cmd

	case key.Matches(msg, m.keymap.Classify):
		if sess.State != engine.StateImageSelected {
			return m, nil
		}
		m.classifying = true
		m.statusMsg = ""
		return m, tea.Batch(m.spinner.Tick, m.classify())

	case key.Matches(msg, m.keymap.Save):
		if sess.State != engine.StateResultReady {
			return m, nil
		}
		return m, m.save()

	case key.Matches(msg, m.keymap.Back):
		// Start over with a new image.
		m.pathInput.SetValue("")
		m.pathInput.Focus()
		m.statusMsg = ""
		return m, textinput.Blink
	}
	return m, nil
}

func (m Model) handleHistoryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.historyList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.historyList, cmd = m.historyList.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keymap.Back), key.Matches(msg, m.keymap.ToggleHistory):
		m.view = ViewFlow
		return m, nil

	case key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Select):
		if item, ok := m.historyList.SelectedItem().(historyItem); ok {
			m.eng.OpenDetail(item.record.ID)
			m.view = ViewDetail
		}
		return m, nil

	case key.Matches(msg, m.keymap.Delete):
		if item, ok := m.historyList.SelectedItem().(historyItem); ok {
			return m, m.deleteEntry(item.record.ID)
		}
		return m, nil

	case key.Matches(msg, m.keymap.Clear):
		if len(m.historyList.Items()) > 0 {
			m.view = ViewConfirmClear
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.historyList, cmd = m.historyList.Update(msg)
	return m, cmd
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Back):
		m.eng.CloseDetail()
		m.view = ViewHistory
		return m, nil

	case key.Matches(msg, m.keymap.Delete):
		id := m.eng.Session().DetailID
		if id == "" {
			m.view = ViewHistory
			return m, nil
		}
		m.view = ViewHistory
		return m, m.deleteEntry(id)

	case key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) handleConfirmClearKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.view = ViewHistory
		return m, m.clearHistory()
	default:
		m.view = ViewHistory
		return m, nil
	}
}

func (m Model) updateActiveComponent(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case ViewFlow:
		m.pathInput, cmd = m.pathInput.Update(msg)
	case ViewHistory:
		m.historyList, cmd = m.historyList.Update(msg)
	}
	return m, cmd
}

func (m *Model) setStatus(msg string) {
	m.statusMsg = msg
	m.statusErr = false
}

func (m *Model) setError(msg string) {
	if msg == "" {
		msg = "Something went wrong."
	}
	m.statusMsg = msg
	m.statusErr = true
}
