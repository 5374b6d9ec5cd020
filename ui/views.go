package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/oscamp/oscamp/progress"
	"github.com/oscamp/oscamp/session"
)

const (
	headerHeight = 7
	footerHeight = 3
)

// View renders the UI as a pure projection of the session and tracker
// state.
func (m Model) View() string {
	if m.showHelp {
		return m.renderHelp()
	}
	if m.width == 0 {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())

	switch {
	case m.sess.Mode() == session.ModeList:
		b.WriteString(m.renderList())
	case m.sess.Mode() == session.ModeHint:
		b.WriteString(m.renderHint())
	case m.done:
		b.WriteString(m.renderDone())
	default:
		b.WriteString(m.renderOutput())
	}

	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) renderHeader() string {
	var b strings.Builder

	agg := m.tracker.Aggregate()
	completed := agg.Passed + agg.Skipped
	frac := 0.0
	if agg.Total > 0 {
		frac = float64(completed) / float64(agg.Total)
	}

	b.WriteString(titleStyle.Render("OS Camp") + dimStyle.Render(" · exercise runner") + "\n")
	b.WriteString(fmt.Sprintf("  %s %d/%d", m.bar.ViewAs(frac), completed, agg.Total))
	if agg.Failed > 0 {
		b.WriteString(failStyle.Render(fmt.Sprintf("  %d failing", agg.Failed)))
	}
	b.WriteString("\n\n")

	ex := m.sess.Current()
	if ex != nil {
		b.WriteString(fmt.Sprintf("  ▶ Exercise %d/%d: %s\n", ex.Index+1, m.reg.Len(), lipgloss.NewStyle().Bold(true).Render(ex.Name)))
		b.WriteString("    " + moduleStyle.Render("["+ex.Module+"]") + " " + ex.Description + "\n")
		b.WriteString("    " + dimStyle.Render("📄 "+ex.Path) + "\n")
	}
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderOutput() string {
	if !m.ready {
		return "Initializing...\n"
	}
	if m.runningPkg != "" {
		return noticeStyle.Render("  ⏳ testing "+m.runningPkg+"…") + "\n" + m.viewport.View() + "\n"
	}
	return m.viewport.View() + "\n"
}

func (m Model) renderHint() string {
	ex := m.sess.Current()
	if ex == nil {
		return ""
	}
	hint := ex.Hint
	if hint == "" {
		hint = "No hint for this exercise."
	}
	return hintStyle.Width(m.width - 4).Render("💡 "+hint) + "\n"
}

func (m Model) renderList() string {
	var b strings.Builder
	current := m.sess.Index()

	for _, mod := range m.reg.Modules() {
		b.WriteString("  " + moduleStyle.Render("["+mod.Name+"]") + "\n")
		for _, ex := range mod.Exercises {
			marker := " "
			if ex.Index == current {
				marker = "▶"
			}
			line := fmt.Sprintf("  %s %s %2d. %-24s %s",
				marker, outcomeGlyph(m.tracker.Of(ex.Package)), ex.Index+1, ex.Name, dimStyle.Render(ex.Package))
			if ex.Index == current {
				line = lipgloss.NewStyle().Foreground(highlight).Render(line)
			}
			b.WriteString(line + "\n")
		}
	}
	return b.String()
}

func (m Model) renderDone() string {
	agg := m.tracker.Aggregate()
	msg := fmt.Sprintf("🎉 Congratulations! All %d exercises are done (%d passed, %d skipped).",
		agg.Total, agg.Passed, agg.Skipped)
	return "\n" + paneStyle.Render(passStyle.Render(msg)) + "\n"
}

func (m Model) renderFooter() string {
	var b strings.Builder
	b.WriteString("\n")
	if m.notice != "" {
		b.WriteString("  " + noticeStyle.Render(m.notice) + "\n")
	} else if m.watchBroken {
		b.WriteString("  " + failStyle.Render("⚠ file watching unavailable, use 'r' to re-run") + "\n")
	} else {
		b.WriteString("  " + dimStyle.Render("📡 watching for changes, saving re-runs the test") + "\n")
	}
	b.WriteString("  " + m.help.View(m.keys))
	return b.String()
}

func (m Model) renderHelp() string {
	title := titleStyle.Render("HELP")
	helpView := m.help.View(m.keys)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		paneStyle.Render(fmt.Sprintf("%s\n\n%s", title, helpView)),
	)
}

// outcomeGlyph maps an outcome to its one-cell list marker.
func outcomeGlyph(o progress.Outcome) string {
	switch o {
	case progress.Pass:
		return passStyle.Render("✓")
	case progress.Fail:
		return failStyle.Render("✗")
	case progress.Skip:
		return skipStyle.Render("⊘")
	default:
		return dimStyle.Render("·")
	}
}
