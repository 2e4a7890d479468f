package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/chmouel/lazytree/internal/fsops"
)

// handleNormalKey dispatches a key press in normal mode.
func (m *Model) handleNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, m.quit()

	case "j", "down":
		m.moveCursor(1)
	case "k", "up":
		m.moveCursor(-1)
	case "g":
		m.gotoTop()
	case "G":
		m.gotoBottom()
	case "h", "left":
		m.collapseOrParent()
	case "l", "right":
		m.expandOnly()
	case keyEnter:
		m.enterDirectory()
	case "backspace":
		m.goParent()
	case "tab":
		m.toggleExpand()
	case ".":
		m.toggleHidden()

	case "/":
		return m, m.startFilter()

	case "J":
		m.preview.ScrollDown(1)
	case "K":
		m.preview.ScrollUp(1)
	case "<":
		m.resizeSplit(-treeRatioStep)
	case ">":
		m.resizeSplit(treeRatioStep)

	case "a":
		return m, m.startCreateFile()
	case "A":
		return m, m.startCreateDir()
	case "r":
		return m, m.startRename()
	case "d":
		m.startDelete()
	case "y":
		m.yankPath()
	case "c":
		m.copySelection(clipCopy)
	case "x":
		m.copySelection(clipCut)
	case "p":
		m.pasteClipboard()

	case "f":
		m.toggleFavorite()
	case "F":
		m.openFavorites()
	case "e":
		return m, m.openEditor()
	case "?":
		m.openHelp()
	}
	return m, nil
}

func (m *Model) moveCursor(delta int) {
	vis := m.visibleEntries()
	if len(vis) == 0 {
		return
	}
	m.cursor += delta
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor >= len(vis) {
		m.cursor = len(vis) - 1
	}
	m.adjustScroll()
	m.requestPreview()
}

func (m *Model) gotoTop() {
	m.cursor = 0
	m.adjustScroll()
	m.requestPreview()
}

func (m *Model) gotoBottom() {
	vis := m.visibleEntries()
	if len(vis) == 0 {
		return
	}
	m.cursor = len(vis) - 1
	m.adjustScroll()
	m.requestPreview()
}

// collapseOrParent is the vim-style h: move to the parent entry when it is
// on screen, collapse an expanded directory, otherwise re-root upward.
func (m *Model) collapseOrParent() {
	vis := m.visibleEntries()
	if m.cursor < len(vis) {
		idx := vis[m.cursor]
		entry := m.tree.At(idx)
		if entry.Depth > 0 {
			if parent := m.tree.FindParentIndex(idx); parent >= 0 {
				if pos := slices.Index(vis, parent); pos >= 0 {
					m.cursor = pos
					m.adjustScroll()
					m.requestPreview()
					return
				}
			}
		}
		if entry.IsDir && entry.Expanded {
			m.tree.ToggleExpand(m.ctx, idx)
			m.clampCursor()
			m.requestPreview()
			return
		}
	}
	m.goParent()
}

// expandOnly is the vim-style l: expand a collapsed directory and nothing
// more. A second press does not collapse.
func (m *Model) expandOnly() {
	idx := m.selectedIndex()
	if idx < 0 {
		return
	}
	entry := m.tree.At(idx)
	if entry.IsDir && !entry.Expanded {
		m.tree.ToggleExpand(m.ctx, idx)
	}
	m.requestPreview()
}

func (m *Model) toggleExpand() {
	idx := m.selectedIndex()
	if idx < 0 {
		return
	}
	m.tree.ToggleExpand(m.ctx, idx)
	m.clampCursor()
	m.requestPreview()
}

// enterDirectory re-roots into the selected directory. On a file it only
// refreshes the preview.
func (m *Model) enterDirectory() {
	idx := m.selectedIndex()
	if idx < 0 {
		return
	}
	entry := m.tree.At(idx)
	if !entry.IsDir {
		m.requestPreview()
		return
	}
	m.tree.EnterDir(m.ctx, idx)
	m.clearFilter()
	m.cursor = 0
	m.scrollOffset = 0
	m.rewatchRoot()
	m.preview.Invalidate()
	m.requestPreview()
}

// goParent re-roots at the parent directory and keeps the cursor on the
// directory the view came from.
func (m *Model) goParent() {
	oldRoot := m.tree.GoParent(m.ctx)
	if oldRoot == "" {
		return
	}
	m.clearFilter()
	m.cursor = 0
	m.scrollOffset = 0
	m.repositionCursorTo(oldRoot)
	m.rewatchRoot()
	m.preview.Invalidate()
	m.requestPreview()
}

func (m *Model) toggleHidden() {
	entry := m.selectedEntry()
	keep := ""
	if entry != nil {
		keep = entry.Path
	}
	m.tree.ToggleHidden(m.ctx)
	m.repositionCursorTo(keep)
	m.preview.Invalidate()
	m.requestPreview()
}

func (m *Model) resizeSplit(delta int) {
	m.treeRatio += delta
	if m.treeRatio < treeRatioMin {
		m.treeRatio = treeRatioMin
	}
	if m.treeRatio > treeRatioMax {
		m.treeRatio = treeRatioMax
	}
}

func (m *Model) rewatchRoot() {
	if m.watcher != nil {
		m.watcher.Rewatch(m.tree.Root())
	}
}

// handleMouse processes mouse events: the wheel scrolls the pane under
// the pointer and a left click moves the cursor onto the clicked row.
func (m *Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.mode != modeNormal || msg.Action != tea.MouseActionPress {
		return m, nil
	}
	layout := m.computeLayout()
	overTree := msg.X < layout.treeWidth

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if overTree {
			m.moveCursor(-1)
		} else {
			m.preview.ScrollUp(3)
		}

	case tea.MouseButtonWheelDown:
		if overTree {
			m.moveCursor(1)
		} else {
			m.preview.ScrollDown(3)
		}

	case tea.MouseButtonLeft:
		if !overTree {
			return m, nil
		}
		// Rows start below the header, the pane border, and the title.
		rowTop := layout.headerHeight + layout.filterHeight + 2
		pos := m.scrollOffset + msg.Y - rowTop
		if msg.Y >= rowTop && pos >= 0 && pos < len(m.visibleEntries()) {
			m.cursor = pos
			m.adjustScroll()
			m.requestPreview()
		}
	}
	return m, nil
}

// Filter mode

func (m *Model) startFilter() tea.Cmd {
	m.mode = modeFilter
	m.filterQuery = ""
	m.preFilterPath = ""
	if entry := m.selectedEntry(); entry != nil {
		m.preFilterPath = entry.Path
	}
	m.filterInput.SetValue("")
	m.filterInput.Focus()
	return textinput.Blink
}

func (m *Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keyEnter:
		// Keep the selection the filter landed on.
		entry := m.selectedEntry()
		m.mode = modeNormal
		m.filterInput.Blur()
		keep := m.preFilterPath
		if entry != nil {
			keep = entry.Path
		}
		m.clearFilter()
		m.repositionCursorTo(keep)
		m.requestPreview()
		return m, nil

	case keyEsc:
		restore := m.preFilterPath
		m.mode = modeNormal
		m.filterInput.Blur()
		m.clearFilter()
		m.repositionCursorTo(restore)
		m.requestPreview()
		return m, nil

	case "down", "ctrl+j":
		m.moveCursor(1)
		return m, nil

	case "up", "ctrl+k":
		m.moveCursor(-1)
		return m, nil
	}

	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	if value := m.filterInput.Value(); value != m.filterQuery {
		m.filterQuery = value
		m.cursor = 0
		m.scrollOffset = 0
		m.adjustScroll()
		m.requestPreview()
	}
	return m, cmd
}

// Prompt mode

func (m *Model) startPrompt(kind promptKind, title, initial string) tea.Cmd {
	m.mode = modePrompt
	m.prompt = kind
	m.promptTitle = title
	m.promptInput.SetValue(initial)
	m.promptInput.CursorEnd()
	m.promptInput.Focus()
	return textinput.Blink
}

func (m *Model) closePrompt() {
	m.mode = modeNormal
	m.prompt = promptNone
	m.promptTitle = ""
	m.promptSubmit = nil
	m.promptInput.Blur()
	m.promptInput.SetValue("")
}

func (m *Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keyEnter:
		if m.promptSubmit == nil {
			m.closePrompt()
			return m, nil
		}
		cmd, done := m.promptSubmit(m.promptInput.Value())
		if done {
			m.closePrompt()
		}
		return m, cmd

	case keyEsc:
		m.closePrompt()
		return m, nil
	}

	var cmd tea.Cmd
	m.promptInput, cmd = m.promptInput.Update(msg)
	return m, cmd
}

func (m *Model) startCreateFile() tea.Cmd {
	m.promptSubmit = func(value string) (tea.Cmd, bool) {
		m.executeCreateFile(value)
		return nil, true
	}
	return m.startPrompt(promptNewFile, "New file", "")
}

func (m *Model) startCreateDir() tea.Cmd {
	m.promptSubmit = func(value string) (tea.Cmd, bool) {
		m.executeCreateDir(value)
		return nil, true
	}
	return m.startPrompt(promptNewDir, "New directory", "")
}

func (m *Model) startRename() tea.Cmd {
	entry := m.selectedEntry()
	if entry == nil {
		return nil
	}
	path := entry.Path
	m.promptSubmit = func(value string) (tea.Cmd, bool) {
		m.executeRename(path, value)
		return nil, true
	}
	return m.startPrompt(promptRename, "Rename", entry.Name)
}

func (m *Model) executeCreateFile(value string) {
	name := strings.TrimSpace(value)
	if name == "" {
		m.setStatus("Name cannot be empty")
		return
	}
	path := filepath.Join(m.currentDir(), name)
	if err := fsops.CreateFile(path); err != nil {
		if errors.Is(err, fs.ErrExist) {
			m.setStatus(name + " already exists")
		} else {
			m.setStatus("Create failed: " + err.Error())
		}
		return
	}
	m.reloadTree()
	m.repositionCursorTo(path)
	m.setStatus("Created: " + name)
	m.preview.Invalidate()
	m.requestPreview()
}

func (m *Model) executeCreateDir(value string) {
	name := strings.TrimSpace(value)
	if name == "" {
		m.setStatus("Name cannot be empty")
		return
	}
	path := filepath.Join(m.currentDir(), name)
	if err := fsops.CreateDir(path); err != nil {
		if errors.Is(err, fs.ErrExist) {
			m.setStatus(name + " already exists")
		} else {
			m.setStatus("Create dir failed: " + err.Error())
		}
		return
	}
	m.reloadTree()
	m.repositionCursorTo(path)
	m.setStatus("Created dir: " + name)
	m.preview.Invalidate()
	m.requestPreview()
}

func (m *Model) executeRename(oldPath, value string) {
	name := strings.TrimSpace(value)
	if name == "" {
		m.setStatus("Name cannot be empty")
		return
	}
	newPath := filepath.Join(filepath.Dir(oldPath), name)
	if err := fsops.Rename(oldPath, newPath); err != nil {
		if errors.Is(err, fs.ErrExist) {
			m.setStatus(name + " already exists")
		} else {
			m.setStatus("Rename failed: " + err.Error())
		}
		return
	}
	// The clipboard may reference the old path.
	for i, p := range m.clipboard.paths {
		if p == oldPath {
			m.clipboard.paths[i] = newPath
		}
	}
	m.reloadTree()
	m.repositionCursorTo(newPath)
	m.setStatus("Renamed to " + name)
	m.preview.Invalidate()
	m.requestPreview()
}

// Confirm mode

func (m *Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", keyEnter:
		action := m.confirmAction
		m.confirmAction = nil
		m.confirmMessage = ""
		m.mode = modeNormal
		if action != nil {
			return m, action()
		}
		return m, nil

	case "n", keyEsc:
		m.confirmAction = nil
		m.confirmMessage = ""
		m.mode = modeNormal
		return m, nil
	}
	return m, nil
}

func (m *Model) startDelete() {
	entry := m.selectedEntry()
	if entry == nil {
		return
	}
	path := entry.Path
	name := entry.Name
	m.mode = modeConfirm
	m.confirmMessage = fmt.Sprintf("Delete %s?", name)
	m.confirmAction = func() tea.Cmd {
		m.executeDelete(path, name)
		return nil
	}
}

func (m *Model) executeDelete(path, name string) {
	if err := fsops.Delete(path); err != nil {
		m.setStatus("Delete failed: " + err.Error())
		return
	}
	// Drop clipboard references under the deleted path.
	kept := m.clipboard.paths[:0]
	for _, p := range m.clipboard.paths {
		if p != path && !strings.HasPrefix(p, path+string(filepath.Separator)) {
			kept = append(kept, p)
		}
	}
	m.clipboard.paths = kept
	if len(m.clipboard.paths) == 0 {
		m.clipboard.op = clipNone
	}
	m.tree.Reload(m.ctx)
	m.clampCursor()
	m.setStatus("Deleted: " + name)
	m.preview.Invalidate()
	m.requestPreview()
}

// Clipboard

func (m *Model) copySelection(op clipboardOp) {
	entry := m.selectedEntry()
	if entry == nil {
		return
	}
	m.clipboard = clipboardState{paths: []string{entry.Path}, op: op}
	if op == clipCut {
		m.setStatus("Cut: " + entry.Name)
	} else {
		m.setStatus("Copied: " + entry.Name)
	}
}

func (m *Model) pasteClipboard() {
	if m.clipboard.op == clipNone || len(m.clipboard.paths) == 0 {
		m.setStatus("Nothing to paste")
		return
	}
	targetDir := m.currentDir()
	lastDest := ""
	pasted := 0
	for _, source := range m.clipboard.paths {
		if _, err := os.Lstat(source); err != nil {
			m.setStatus("Source no longer exists: " + source)
			continue
		}
		rawDest := filepath.Join(targetDir, filepath.Base(source))
		if m.clipboard.op == clipCut && rawDest == source {
			lastDest = rawDest
			pasted++
			continue
		}
		dest := fsops.UniqueDestPath(rawDest)
		var err error
		if m.clipboard.op == clipCut {
			err = moveEntry(source, dest)
		} else {
			err = fsops.CopyPath(source, dest)
		}
		if err != nil {
			m.setStatus("Paste failed: " + err.Error())
			m.reloadTree()
			return
		}
		lastDest = dest
		pasted++
	}
	if m.clipboard.op == clipCut {
		m.clipboard = clipboardState{}
	}
	m.reloadTree()
	if lastDest != "" {
		m.repositionCursorTo(lastDest)
	}
	if pasted > 0 {
		m.setStatus("Pasted")
	}
	m.preview.Invalidate()
	m.requestPreview()
}

// moveEntry renames, falling back to copy plus delete for cross-device
// moves.
func moveEntry(source, dest string) error {
	if err := os.Rename(source, dest); err == nil {
		return nil
	}
	if err := fsops.CopyPath(source, dest); err != nil {
		return err
	}
	return fsops.Delete(source)
}

func (m *Model) yankPath() {
	entry := m.selectedEntry()
	if entry == nil {
		return
	}
	if err := clipboard.WriteAll(entry.Path); err != nil {
		m.setStatus("Yank failed: " + err.Error())
		return
	}
	m.setStatus("Yanked: " + entry.Path)
}

// Favorites

func (m *Model) toggleFavorite() {
	path := m.tree.Root()
	if entry := m.selectedEntry(); entry != nil && entry.IsDir {
		path = entry.Path
	}
	if m.favs.Toggle(path) {
		m.setStatus("Added to favorites")
	} else {
		m.setStatus("Removed from favorites")
	}
	if err := m.favs.Save(); err != nil {
		m.setStatus("Save favorites failed: " + err.Error())
	}
}

func (m *Model) openFavorites() {
	m.mode = modeFavorites
	if m.favCursor >= m.favs.Len() {
		m.favCursor = 0
	}
}

func (m *Model) handleFavoritesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if m.favCursor < m.favs.Len()-1 {
			m.favCursor++
		}

	case "k", "up":
		if m.favCursor > 0 {
			m.favCursor--
		}

	case keyEnter:
		path, ok := m.favs.Get(m.favCursor)
		if !ok {
			m.mode = modeNormal
			return m, nil
		}
		fi, err := os.Stat(path)
		if err != nil || !fi.IsDir() {
			m.setStatus("Directory no longer exists")
			return m, nil
		}
		m.mode = modeNormal
		m.tree.NavigateTo(m.ctx, path)
		m.clearFilter()
		m.cursor = 0
		m.scrollOffset = 0
		m.rewatchRoot()
		m.preview.Invalidate()
		m.requestPreview()

	case "d", "delete":
		if m.favs.Remove(m.favCursor) {
			if err := m.favs.Save(); err != nil {
				m.setStatus("Save favorites failed: " + err.Error())
			}
			if m.favCursor >= m.favs.Len() && m.favCursor > 0 {
				m.favCursor--
			}
		}

	case "a":
		if m.favs.Add(m.tree.Root()) {
			m.setStatus("Added to favorites")
			if err := m.favs.Save(); err != nil {
				m.setStatus("Save favorites failed: " + err.Error())
			}
		} else {
			m.setStatus("Already in favorites")
		}

	case keyEsc, "q":
		m.mode = modeNormal
	}
	return m, nil
}

// Help mode

func (m *Model) openHelp() {
	m.mode = modeHelp
	m.helpView.SetContent(m.renderHelpContent())
	m.helpView.GotoTop()
}

func (m *Model) handleHelpKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", keyEsc, "?":
		m.mode = modeNormal
		return m, nil
	}
	var cmd tea.Cmd
	m.helpView, cmd = m.helpView.Update(msg)
	return m, cmd
}

// Editor

// openEditor suspends the TUI and runs $EDITOR on the selected file.
func (m *Model) openEditor() tea.Cmd {
	entry := m.selectedEntry()
	if entry == nil || entry.IsDir {
		return nil
	}
	editor := m.config.ResolveEditor()
	cmd := exec.Command(editor, entry.Path)
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return editorFinishedMsg{err: err}
	})
}
