package diff

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	hunkStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	addedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#22c55e"))
	removedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444"))
)

// RenderUnified renders the diff in unified format. When colored is true,
// lines are styled for terminal display; otherwise the output is plain
// text suitable for piping.
func RenderUnified(fd *FileDiff, colored bool) string {
	if fd == nil || !fd.HasChanges() {
		return ""
	}

	var b strings.Builder
	writeLn(&b, fmt.Sprintf("--- %s (original)", fd.Path), headerStyle, colored)
	writeLn(&b, fmt.Sprintf("+++ %s (fixed)", fd.Path), headerStyle, colored)

	for _, h := range fd.Hunks {
		writeLn(&b, fmt.Sprintf("@@ -%d,%d +%d,%d @@", h.OldStart, h.OldCount, h.NewStart, h.NewCount), hunkStyle, colored)
		for _, l := range h.Lines {
			switch l.Type {
			case LineAdded:
				writeLn(&b, "+"+l.Content, addedStyle, colored)
			case LineRemoved:
				writeLn(&b, "-"+l.Content, removedStyle, colored)
			default:
				writeLn(&b, " "+l.Content, lipgloss.NewStyle(), false)
			}
		}
	}
	return b.String()
}

func writeLn(b *strings.Builder, s string, style lipgloss.Style, colored bool) {
	if colored {
		s = style.Render(s)
	}
	b.WriteString(s)
	b.WriteByte('\n')
}
