package tui

import (
	"context"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

const classifyTimeout = 90 * time.Second

// loadImage reads a file from disk and installs it as the session
// image.
func (m Model) loadImage(path string) tea.Cmd {
	return func() tea.Msg {
		raw, err := os.ReadFile(path)
		if err != nil {
			return imageLoadedMsg{err: err, path: path}
		}
		if err := m.eng.SelectImageFile(raw); err != nil {
			return imageLoadedMsg{err: err, path: path}
		}
		return imageLoadedMsg{path: path}
	}
}

// classify runs the classification in the background while the
// spinner animates.
func (m Model) classify() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), classifyTimeout)
		defer cancel()
		return classifyDoneMsg{err: m.eng.Classify(ctx)}
	}
}

func (m Model) save() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return saveDoneMsg{err: m.eng.Save(ctx)}
	}
}

func (m Model) deleteEntry(id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return historyChangedMsg{err: m.eng.DeleteHistoryItem(ctx, id)}
	}
}

func (m Model) clearHistory() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return historyChangedMsg{err: m.eng.ClearHistory(ctx)}
	}
}

// refreshHistory rebuilds the list items from the store.
func (m *Model) refreshHistory() tea.Cmd {
	entries := m.eng.HistoryEntries()
	items := make([]list.Item, len(entries))
	for i, rec := range entries {
		items[i] = historyItem{record: rec}
	}
	return m.historyList.SetItems(items)
}
