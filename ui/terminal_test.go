package ui_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raise3/raise3/ui"
)

func TestTableAlignsColumns(t *testing.T) {
	var out bytes.Buffer
	u := ui.NewTerminalUIWithStreams(&out, strings.NewReader(""), false)

	u.Table([]string{"#", "Name"}, [][]string{
		{"0", "Solar farm"},
		{"12", "Clinic"},
	})

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 6)
	width := ui.CellWidth(lines[0])
	for _, l := range lines {
		assert.Equal(t, width, ui.CellWidth(l), l)
	}
	assert.Contains(t, lines[1], "Name")
	assert.Contains(t, lines[3], "Solar farm")
}

func TestAskRetriesUntilValid(t *testing.T) {
	var out bytes.Buffer
	u := ui.NewTerminalUIWithStreams(&out, strings.NewReader("x\n2\n"), false)

	idx := u.Choose("Pick a role", []string{"founder", "investor"})
	assert.Equal(t, 1, idx)
	assert.Contains(t, out.String(), "please enter a number between 1 and 2")
}

func TestSpinnerIsNoopWithoutTerminal(t *testing.T) {
	var out bytes.Buffer
	u := ui.NewTerminalUIWithStreams(&out, strings.NewReader(""), false)
	stop := u.Spinner("loading")
	stop()
	assert.Empty(t, out.String())
}

func TestIndentedWriter(t *testing.T) {
	var out bytes.Buffer
	u := ui.NewTerminalUIWithStreams(&out, strings.NewReader(""), false)
	_, err := u.Indent().Writer().Write([]byte("a\nb\n"))
	require.NoError(t, err)
	assert.Equal(t, "  a\n  b\n", out.String())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", ui.Truncate("short", 10))
	assert.Equal(t, 10, ui.CellWidth(ui.Truncate(strings.Repeat("x", 40), 10)))
}

func TestRecordingUIChoose(t *testing.T) {
	r := ui.NewRecordingUI("Investor")
	idx := r.Choose("role", []string{"founder", "investor"})
	assert.Equal(t, 1, idx)
	assert.Equal(t, []string{"role"}, r.Messages("Choose"))
}
