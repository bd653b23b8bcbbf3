package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/ecosnap/ecosnap/internal/cli"
	"github.com/ecosnap/ecosnap/internal/engine"
	"github.com/ecosnap/ecosnap/internal/model"
)

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var body string
	switch m.view {
	case ViewFlow:
		body = m.renderFlow()
	case ViewHistory:
		body = m.renderHistory()
	case ViewDetail:
		body = m.renderDetail()
	case ViewConfirmClear:
		body = m.renderConfirmClear()
	case ViewHelp:
		body = m.renderHelp()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		cli.FormatTitle("EcoSnap"),
		body,
		m.renderStatus(),
	)
}

func (m Model) renderFlow() string {
	sess := m.eng.Session()

	var b strings.Builder
	b.WriteString(cli.SubtitleStyle.Render("Snap a photo of an item to learn how to dispose of it."))
	b.WriteString("\n\n")
	b.WriteString(m.pathInput.View())
	b.WriteString("\n\n")

	switch {
	case m.classifying:
		b.WriteString(m.spinner.View() + " Classifying...")
	case sess.State == engine.StateImageSelected:
		b.WriteString(cli.InfoStyle.Render("Image ready. Press c to classify."))
	case sess.State == engine.StateResultReady, sess.State == engine.StateSaved:
		b.WriteString(m.renderResult(sess))
	default:
		b.WriteString(cli.SubtleStyle.Render("Enter an image path and press Enter."))
	}

	b.WriteString("\n\n")
	b.WriteString(cli.SubtleStyle.Render("c classify · s save · Tab history · Esc new image · q quit"))
	return b.String()
}

func (m Model) renderResult(sess engine.Session) string {
	rec := sess.Result
	if rec == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(categoryBadge(rec.Category))
	if rec.Confidence != nil {
		b.WriteString(cli.SubtleStyle.Render(fmt.Sprintf("  %.0f%% confident", *rec.Confidence*100)))
	}
	b.WriteString("\n\n")
	b.WriteString(rec.Reasoning)
	b.WriteString("\n\n")
	b.WriteString(cli.BoldStyle.Render("Disposal guidance"))
	b.WriteString("\n")
	for _, s := range rec.Suggestions {
		b.WriteString("  " + cli.RecycleIcon + " " + s + "\n")
	}

	if sess.State == engine.StateSaved {
		b.WriteString("\n" + cli.FormatSuccess("Saved to history."))
	} else {
		b.WriteString("\n" + cli.SubtleStyle.Render("Press s to save this result."))
	}
	return cli.BoxStyle.Render(b.String())
}

func (m Model) renderHistory() string {
	if len(m.historyList.Items()) == 0 {
		return cli.SubtleStyle.Render("\nNo saved classifications yet.\n\nTab to go back.")
	}
	return m.historyList.View() + "\n" +
		cli.SubtleStyle.Render("Enter view · d delete · C clear all · Esc back")
}

func (m Model) renderDetail() string {
	id := m.eng.Session().DetailID
	rec, ok := m.eng.HistoryEntry(id)
	if !ok {
		return cli.SubtleStyle.Render("Entry no longer exists. Esc to go back.")
	}

	var b strings.Builder
	b.WriteString(categoryBadge(rec.Category))
	b.WriteString("\n")
	b.WriteString(cli.SubtleStyle.Render(time.UnixMilli(rec.Timestamp).Format("Mon, 02 Jan 2006 15:04")))
	if rec.Location != nil {
		b.WriteString(cli.SubtleStyle.Render(fmt.Sprintf("  %s %.4f, %.4f", cli.PinIcon, rec.Location.Lat, rec.Location.Lon)))
	}
	b.WriteString("\n\n")
	b.WriteString(rec.Reasoning)
	b.WriteString("\n\n")
	for _, s := range rec.Suggestions {
		b.WriteString("  " + cli.RecycleIcon + " " + s + "\n")
	}
	b.WriteString("\n" + cli.SubtleStyle.Render("d delete · Esc back"))
	return cli.BoxStyle.Render(b.String())
}

func (m Model) renderConfirmClear() string {
	return cli.BoxStyle.Render(
		cli.WarningStyle.Render("Clear all saved classifications?") +
			"\n\n" +
			"This cannot be undone. " + cli.BoldStyle.Render("y") + " to confirm, any other key to cancel.")
}

func (m Model) renderHelp() string {
	var b strings.Builder
	b.WriteString(cli.BoldStyle.Render("Keyboard shortcuts"))
	b.WriteString("\n\n")
	for _, row := range m.keymap.FullHelp() {
		for _, binding := range row {
			h := binding.Help()
			b.WriteString(fmt.Sprintf("  %-14s %s\n", h.Key, h.Desc))
		}
		b.WriteString("\n")
	}
	b.WriteString(cli.SubtleStyle.Render("Press any key to close."))
	return b.String()
}

func (m Model) renderStatus() string {
	if m.statusMsg == "" {
		return ""
	}
	if m.statusErr {
		return cli.FormatError(m.statusMsg)
	}
	return cli.InfoStyle.Render(m.statusMsg)
}

// categoryBadge renders a category name on its characteristic color.
func categoryBadge(c model.WasteCategory) string {
	color := cli.SubtleColor
	switch c {
	case model.CategoryPlastic:
		color = lipgloss.Color("#3B82F6")
	case model.CategoryPaper:
		color = lipgloss.Color("#F59E0B")
	case model.CategoryGlass:
		color = lipgloss.Color("#10B981")
	case model.CategoryMetal:
		color = lipgloss.Color("#6B7280")
	case model.CategoryOrganic:
		color = lipgloss.Color("#84CC16")
	case model.CategoryElectronic:
		color = lipgloss.Color("#8B5CF6")
	case model.CategoryTextile:
		color = lipgloss.Color("#EC4899")
	case model.CategoryBattery:
		color = lipgloss.Color("#EF4444")
	case model.CategoryGeneralWaste:
		color = lipgloss.Color("#78716C")
	}
	return lipgloss.NewStyle().
		Bold(true).
		Padding(0, 1).
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(color).
		Render(string(c))
}
