package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatHelpersIncludeIconAndMessage(t *testing.T) {
	assert.Contains(t, FormatSuccess("saved"), SuccessIcon)
	assert.Contains(t, FormatSuccess("saved"), "saved")
	assert.Contains(t, FormatError("broken"), ErrorIcon)
	assert.Contains(t, FormatWarning("careful"), "careful")
	assert.Contains(t, FormatInfo("note"), "note")
	assert.Contains(t, FormatTitle("EcoSnap"), LeafIcon)
}

func TestTableStylesPreserveContent(t *testing.T) {
	assert.Contains(t, TableHeaderStyle.Render("ID  CATEGORY"), "ID  CATEGORY")
	assert.Contains(t, TableCellStyle.Render("abc123"), "abc123")
	assert.Contains(t, PromptStyle.Render("Delete all? [y/N]"), "Delete all? [y/N]")
}

func TestRenderBoxIncludesTitleAndBody(t *testing.T) {
	out := RenderBox("Plastic", "Rinse before recycling.")
	assert.Contains(t, out, "Plastic")
	assert.Contains(t, out, "Rinse before recycling.")
}
