package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/chmouel/lazytree/internal/models"
	"github.com/chmouel/lazytree/internal/preview"
	"github.com/chmouel/lazytree/internal/utils"
	"github.com/muesli/reflow/truncate"
)

// renderHeader renders the breadcrumb path bar.
func (m *Model) renderHeader(layout layoutDims) string {
	headerStyle := lipgloss.NewStyle().
		Background(m.theme.BarBg).
		Foreground(m.theme.TextFg).
		Bold(true).
		Width(layout.width).
		Padding(0, 1)
	crumb := joinBreadcrumb(breadcrumbSegments(m.tree.Root()), maxInt(1, layout.width-2))
	return headerStyle.Render(crumb)
}

// breadcrumbSegments splits a path for the header bar. The home directory
// collapses to ~ and its parents are dropped.
func breadcrumbSegments(path string) []string {
	sep := string(filepath.Separator)
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		if path == home {
			return []string{"~"}
		}
		if strings.HasPrefix(path, home+sep) {
			rest := strings.TrimPrefix(path, home+sep)
			return append([]string{"~"}, strings.Split(rest, sep)...)
		}
	}
	clean := filepath.Clean(path)
	if clean == sep {
		return []string{sep}
	}
	var segments []string
	if strings.HasPrefix(clean, sep) {
		segments = append(segments, sep)
		clean = strings.TrimPrefix(clean, sep)
	}
	for _, s := range strings.Split(clean, sep) {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}

// joinBreadcrumb joins segments with " > ". When the result overflows
// maxWidth the middle segments collapse to an ellipsis, then the leading
// segment goes too, and as a last resort the final segment is cut.
func joinBreadcrumb(segments []string, maxWidth int) string {
	if len(segments) == 0 {
		return ""
	}
	full := strings.Join(segments, " > ")
	if lipgloss.Width(full) <= maxWidth {
		return full
	}
	last := segments[len(segments)-1]
	if len(segments) > 2 {
		short := segments[0] + " > ... > " + last
		if lipgloss.Width(short) <= maxWidth {
			return short
		}
	}
	short := "... > " + last
	if lipgloss.Width(short) <= maxWidth {
		return short
	}
	return truncate.StringWithTail(last, uint(maxWidth), "…")
}

// renderFilter renders the filter input bar.
func (m *Model) renderFilter(layout layoutDims) string {
	labelStyle := lipgloss.NewStyle().
		Foreground(m.theme.AccentFg).
		Background(m.theme.Accent).
		Bold(true).
		Padding(0, 1)
	lineStyle := lipgloss.NewStyle().Foreground(m.theme.TextFg).Padding(0, 1)
	line := labelStyle.Render("Filter") + " " + m.filterInput.View()
	return lineStyle.Width(layout.width).Render(line)
}

// renderPaneTitle renders a pane title line.
func (m *Model) renderPaneTitle(title string, focused bool, width int) string {
	style := lipgloss.NewStyle().Foreground(m.theme.MutedFg)
	if focused {
		style = style.Foreground(m.theme.TextFg).Bold(true)
	}
	return lipgloss.NewStyle().Width(width).Render(style.Render(title))
}

// renderTreePane renders the left pane with the entry rows.
func (m *Model) renderTreePane(layout layoutDims) string {
	title := "Files"
	if m.tree.ShowHidden() {
		title = "Files [hidden]"
	}
	titleLine := m.renderPaneTitle(title, true, layout.treeInnerWidth)
	rows := m.renderTreeRows(layout.treeInnerWidth, m.treeVisibleRows())
	content := lipgloss.JoinVertical(lipgloss.Left, titleLine, rows)
	return m.paneStyle(true).
		Width(layout.treeWidth).
		Height(layout.bodyHeight).
		MaxHeight(layout.bodyHeight).
		Render(content)
}

func (m *Model) renderTreeRows(width, height int) string {
	vis := m.visibleEntries()
	if len(vis) == 0 {
		if m.filterQuery != "" {
			return lipgloss.NewStyle().Foreground(m.theme.MutedFg).Render("No matches")
		}
		return lipgloss.NewStyle().Foreground(m.theme.MutedFg).Render("(empty)")
	}

	start := minInt(m.scrollOffset, len(vis)-1)
	end := minInt(start+height, len(vis))

	var b strings.Builder
	for pos := start; pos < end; pos++ {
		if pos > start {
			b.WriteByte('\n')
		}
		b.WriteString(m.renderTreeRow(m.tree.At(vis[pos]), width, pos == m.cursor))
	}
	return b.String()
}

func (m *Model) renderTreeRow(entry *models.Entry, width int, selected bool) string {
	indent := strings.Repeat("  ", entry.Depth)
	chevron := "  "
	if entry.IsDir {
		if entry.Expanded {
			chevron = "▾ "
		} else {
			chevron = "▸ "
		}
	}
	icon := ""
	if m.config.ShowIcons {
		icon = iconWithSpace(deviconForName(entry.Name, entry.IsDir))
	}
	name := entry.Name
	if entry.IsSymlink && entry.SymlinkTarget != "" {
		name += " → " + entry.SymlinkTarget
	}

	code := statusCodeFor(entry.Status)
	fav := " "
	if entry.IsDir && m.favs.Contains(entry.Path) {
		fav = "★"
	}

	// Two columns on the right for the favorite marker and status rune.
	avail := maxInt(1, width-2)
	left := truncate.StringWithTail(indent+chevron+icon+name, uint(avail), "…")
	pad := maxInt(0, avail-lipgloss.Width(left))

	if selected {
		return lipgloss.NewStyle().
			Background(m.theme.SelectionBg).
			Foreground(m.theme.TextFg).
			Bold(true).
			Render(left + strings.Repeat(" ", pad) + fav + string(code.Rune()))
	}

	nameStyle := lipgloss.NewStyle().Foreground(m.theme.TextFg)
	switch {
	case entry.Ignored:
		nameStyle = nameStyle.Foreground(m.theme.MutedFg)
	case entry.IsDir:
		nameStyle = nameStyle.Foreground(m.theme.DirFg)
	case entry.IsSymlink:
		nameStyle = nameStyle.Foreground(m.theme.SymlinkFg)
	}
	favStyle := lipgloss.NewStyle().Foreground(m.theme.MarkedFg)
	statusStyle := lipgloss.NewStyle().Foreground(m.theme.StatusColor(code))
	return nameStyle.Render(left+strings.Repeat(" ", pad)) +
		favStyle.Render(fav) +
		statusStyle.Render(string(code.Rune()))
}

// statusCodeFor picks the side of a file's status worth showing: the
// higher-severity one, unstaged winning ties.
func statusCodeFor(s models.FileStatus) models.StatusCode {
	if s.Unstaged.Severity() >= s.Staged.Severity() {
		return s.Unstaged
	}
	return s.Staged
}

// renderPreviewPane renders the right pane with the preview content.
func (m *Model) renderPreviewPane(layout layoutDims) string {
	title := "Preview"
	if p := m.preview.CurrentPath(); p != "" {
		title = "Preview · " + filepath.Base(p)
	}
	titleLine := m.renderPaneTitle(title, false, layout.previewInnerWidth)
	content := m.renderPreviewContent(m.preview.Content(), layout.previewInnerWidth, layout.previewInnerHeight-1)
	body := lipgloss.JoinVertical(lipgloss.Left, titleLine, content)
	return m.paneStyle(false).
		Width(layout.previewWidth).
		Height(layout.bodyHeight).
		MaxHeight(layout.bodyHeight).
		Render(body)
}

func (m *Model) renderPreviewContent(c *preview.Content, width, height int) string {
	mutedStyle := lipgloss.NewStyle().Foreground(m.theme.MutedFg)
	if c == nil {
		return mutedStyle.Render("Nothing selected")
	}

	switch c.Kind {
	case preview.KindError:
		return lipgloss.NewStyle().Foreground(m.theme.ErrorFg).Render(c.Err)
	case preview.KindEmpty:
		return mutedStyle.Render("(empty file)")
	case preview.KindTooLarge:
		return mutedStyle.Render(fmt.Sprintf("File too large to preview (%s)", utils.FormatSize(c.Size)))
	case preview.KindImage:
		return m.renderImageInfo(c)
	}

	// Text, binary, directory, archive, and loading previews carry
	// print-ready lines.
	lines := c.Lines
	offset := 0
	if len(lines) > 0 {
		offset = minInt(m.preview.Scroll(), len(lines)-1)
	}
	end := minInt(offset+height, len(lines))
	visible := lines[offset:end]

	var b strings.Builder
	for i, line := range visible {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(truncate.String(line, uint(width)))
	}
	out := b.String()

	if len(c.Commits) > 0 {
		out = m.appendCommits(out, c.Commits, width, height-len(visible))
	}
	return out
}

// appendCommits adds the recent-commits section under the preview when
// there is room left in the pane.
func (m *Model) appendCommits(content string, commits []models.Commit, width, room int) string {
	if room < 3 {
		return content
	}
	titleStyle := lipgloss.NewStyle().Foreground(m.theme.MutedFg).Bold(true)
	hashStyle := lipgloss.NewStyle().Foreground(m.theme.Accent)
	dateStyle := lipgloss.NewStyle().Foreground(m.theme.MutedFg)

	var b strings.Builder
	b.WriteString(content)
	b.WriteString("\n\n")
	b.WriteString(titleStyle.Render("Recent commits"))
	room -= 2
	for _, commit := range commits {
		if room <= 1 {
			break
		}
		line := hashStyle.Render(commit.Hash) + " " +
			dateStyle.Render(commit.Date+" "+commit.Author) + " " + commit.Message
		b.WriteByte('\n')
		b.WriteString(ansi.Truncate(line, width, "…"))
		room--
	}
	return b.String()
}

func (m *Model) renderImageInfo(c *preview.Content) string {
	if c.Image == nil {
		return lipgloss.NewStyle().Foreground(m.theme.MutedFg).Render("Loading image...")
	}
	labelStyle := lipgloss.NewStyle().Foreground(m.theme.MutedFg)
	valueStyle := lipgloss.NewStyle().Foreground(m.theme.TextFg)

	lines := []string{
		labelStyle.Render("Format ") + valueStyle.Render(strings.ToUpper(c.Image.Format)),
		labelStyle.Render("Size   ") + valueStyle.Render(fmt.Sprintf("%d x %d", c.Image.Width, c.Image.Height)),
	}
	if ratio := c.Image.AspectRatio(); ratio != "" {
		lines = append(lines, labelStyle.Render("Ratio  ")+valueStyle.Render(ratio))
	}
	if c.Size > 0 {
		lines = append(lines, labelStyle.Render("Bytes  ")+valueStyle.Render(utils.FormatSize(c.Size)))
	}
	return strings.Join(lines, "\n")
}

// renderStatusBar renders the bottom bar: entry info or the transient
// status message on the left, repository state and position on the right.
func (m *Model) renderStatusBar(layout layoutDims) string {
	barStyle := lipgloss.NewStyle().
		Background(m.theme.BarBg).
		Foreground(m.theme.TextFg).
		Width(layout.width).
		Padding(0, 1)

	left := m.statusBarLeft()
	right := m.statusBarRight()

	inner := maxInt(1, layout.width-2)
	gap := inner - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		keep := maxInt(0, inner-lipgloss.Width(right)-1)
		left = ansi.Truncate(left, keep, "…")
		gap = maxInt(1, inner-lipgloss.Width(left)-lipgloss.Width(right))
	}
	return barStyle.Render(left + strings.Repeat(" ", gap) + right)
}

func (m *Model) statusBarLeft() string {
	if m.statusMessage != "" {
		return lipgloss.NewStyle().Foreground(m.theme.InfoFg).Render(m.statusMessage)
	}
	entry := m.selectedEntry()
	if entry == nil {
		return lipgloss.NewStyle().Foreground(m.theme.MutedFg).Render("(no selection)")
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(entry.Name))
	if !entry.IsDir {
		b.WriteString(" | " + utils.FormatSize(entry.Size))
	}
	if label := statusLabel(entry.Status); label != "" {
		color := m.theme.StatusColor(statusCodeFor(entry.Status))
		b.WriteString(" " + lipgloss.NewStyle().Foreground(color).Render("["+label+"]"))
	}
	if c := m.preview.Content(); c != nil && c.Kind == preview.KindText {
		b.WriteString(fmt.Sprintf(" | %d lines", c.LineCount))
	}
	return b.String()
}

func (m *Model) statusBarRight() string {
	info := m.tree.Info()
	var parts []string
	if info.Branch != "" {
		parts = append(parts, lipgloss.NewStyle().Foreground(m.theme.InfoFg).Render(info.Branch))
	}
	if info.StagedCount > 0 || info.ModifiedCount > 0 || info.UntrackedCount > 0 {
		counts := lipgloss.NewStyle().Foreground(m.theme.StagedFg).Render(fmt.Sprintf("+%d", info.StagedCount)) +
			" " + lipgloss.NewStyle().Foreground(m.theme.ModifiedFg).Render(fmt.Sprintf("~%d", info.ModifiedCount)) +
			" " + lipgloss.NewStyle().Foreground(m.theme.UntrackedFg).Render(fmt.Sprintf("?%d", info.UntrackedCount))
		parts = append(parts, counts)
	}
	if info.Branch != "" && (info.Ahead > 0 || info.Behind > 0) {
		parts = append(parts, lipgloss.NewStyle().Foreground(m.theme.WarnFg).Render(fmt.Sprintf("↑%d↓%d", info.Ahead, info.Behind)))
	}

	vis := m.visibleEntries()
	pos := "0/0"
	if len(vis) > 0 {
		pos = fmt.Sprintf("%d/%d", m.cursor+1, len(vis))
	}
	parts = append(parts, lipgloss.NewStyle().Foreground(m.theme.MutedFg).Render(pos))
	return strings.Join(parts, "  ")
}

// statusLabel summarizes an entry's git state for the status bar. The
// precedence follows what a user most needs to know about the file.
func statusLabel(s models.FileStatus) string {
	switch {
	case s.Staged == models.StatusConflicted || s.Unstaged == models.StatusConflicted:
		return "conflicted"
	case s.Unstaged == models.StatusUntracked:
		return "untracked"
	case s.Unstaged == models.StatusModified && s.Staged != models.StatusNone:
		return "modified+staged"
	case s.Unstaged == models.StatusModified:
		return "modified"
	case s.Unstaged == models.StatusDeleted || s.Staged == models.StatusDeleted:
		return "deleted"
	case s.Staged == models.StatusAdded:
		return "added"
	case s.Staged == models.StatusRenamed:
		return "renamed"
	case s.Staged != models.StatusNone:
		return "staged"
	default:
		return ""
	}
}

func (m *Model) renderPromptPopup() string {
	titleStyle := lipgloss.NewStyle().Foreground(m.theme.Accent).Bold(true)
	footStyle := lipgloss.NewStyle().Foreground(m.theme.MutedFg)
	content := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(m.promptTitle),
		"",
		m.promptInput.View(),
		"",
		footStyle.Render("Enter to confirm • Esc to cancel"),
	)
	return m.popupStyle().Width(minInt(52, maxInt(30, m.windowWidth-8))).Render(content)
}

func (m *Model) renderConfirmPopup() string {
	titleStyle := lipgloss.NewStyle().Foreground(m.theme.WarnFg).Bold(true)
	content := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Confirm"),
		"",
		m.confirmMessage,
		"",
		m.renderKeyHint("y", "Yes")+"  "+m.renderKeyHint("n", "No"),
	)
	return m.popupStyle().Width(minInt(52, maxInt(30, m.windowWidth-8))).Render(content)
}

func (m *Model) renderFavoritesPopup() string {
	titleStyle := lipgloss.NewStyle().Foreground(m.theme.Accent).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(m.theme.MutedFg)
	selStyle := lipgloss.NewStyle().
		Background(m.theme.SelectionBg).
		Foreground(m.theme.TextFg).
		Bold(true)

	width := minInt(64, maxInt(36, m.windowWidth-10))
	inner := width - 4

	rows := []string{titleStyle.Render("Favorites"), ""}
	if m.favs.Len() == 0 {
		rows = append(rows, mutedStyle.Render("No favorites yet. Press a to add the current root."))
	} else {
		for i, path := range m.favs.List() {
			line := truncate.StringWithTail(displayPath(path), uint(inner-2), "…")
			if i == m.favCursor {
				rows = append(rows, selStyle.Render("> "+line))
			} else {
				rows = append(rows, "  "+line)
			}
		}
	}
	rows = append(rows, "",
		m.renderKeyHint("Enter", "Go")+"  "+
			m.renderKeyHint("a", "Add")+"  "+
			m.renderKeyHint("d", "Remove")+"  "+
			m.renderKeyHint("Esc", "Close"))
	return m.popupStyle().Width(width).Render(strings.Join(rows, "\n"))
}

func (m *Model) renderHelpPopup() string {
	titleStyle := lipgloss.NewStyle().Foreground(m.theme.Accent).Bold(true)
	footStyle := lipgloss.NewStyle().Foreground(m.theme.MutedFg)
	content := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Help"),
		m.helpView.View(),
		footStyle.Render("Press q, ? or Esc to close"),
	)
	return m.popupStyle().Render(content)
}

func (m *Model) renderHelpContent() string {
	sectionStyle := lipgloss.NewStyle().Foreground(m.theme.Accent).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(m.theme.TextFg).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(m.theme.MutedFg)

	entry := func(key, desc string) string {
		return keyStyle.Render(fmt.Sprintf(" %-14s", key)) + descStyle.Render(desc)
	}

	lines := []string{
		sectionStyle.Render(" Navigation"),
		entry("j/k", "Move down / up"),
		entry("h", "Collapse / parent"),
		entry("l", "Expand"),
		entry("Tab", "Toggle expand"),
		entry("Enter", "Enter directory"),
		entry("Backspace", "Go to parent"),
		entry("g/G", "Go to top / bottom"),
		entry("f", "Toggle favorite"),
		entry("F", "Open favorites"),
		"",
		sectionStyle.Render(" Search"),
		entry("/", "Filter entries"),
		entry("Enter", "Keep selection"),
		entry("Esc", "Cancel"),
		"",
		sectionStyle.Render(" Preview"),
		entry("J/K", "Scroll down / up"),
		entry("</>", "Resize split"),
		"",
		sectionStyle.Render(" Actions"),
		entry("e", "Open in $EDITOR"),
		entry("y", "Yank path"),
		entry(".", "Toggle hidden files"),
		"",
		sectionStyle.Render(" File Operations"),
		entry("a/A", "New file / directory"),
		entry("r", "Rename"),
		entry("d", "Delete"),
		entry("c/x", "Copy / cut"),
		entry("p", "Paste"),
		"",
		sectionStyle.Render(" Quit"),
		entry("q", "Quit"),
	}
	return strings.Join(lines, "\n")
}

// displayPath collapses the home prefix to ~ for display.
func displayPath(path string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	if path == home {
		return "~"
	}
	sep := string(filepath.Separator)
	if strings.HasPrefix(path, home+sep) {
		return "~" + strings.TrimPrefix(path, home)
	}
	return path
}
