package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoveCursorClampsAtEdges(t *testing.T) {
	m := newTestModel(t, "a.txt", "b.txt")
	m.moveCursor(-1)
	assert.Equal(t, 0, m.cursor)

	m.moveCursor(5)
	assert.Equal(t, 1, m.cursor)

	m.moveCursor(1)
	assert.Equal(t, 1, m.cursor)
}

func TestEnterDirectoryReroots(t *testing.T) {
	m := newTestModel(t, "sub/inner.txt", "top.txt")
	root := m.tree.Root()

	press(m, "enter")
	assert.Equal(t, filepath.Join(root, "sub"), m.tree.Root())
	assert.Equal(t, 0, m.cursor)
	assert.Equal(t, []string{"inner.txt"}, entryNames(m))
}

func TestEnterOnFileKeepsRoot(t *testing.T) {
	m := newTestModel(t, "a.txt")
	root := m.tree.Root()

	press(m, "enter")
	assert.Equal(t, root, m.tree.Root())
}

func TestGoParentKeepsCursorOnOldRoot(t *testing.T) {
	m := newTestModel(t, "sub/inner.txt", "another/")
	root := m.tree.Root()

	m.repositionCursorTo(filepath.Join(root, "sub"))
	press(m, "enter")
	require.Equal(t, filepath.Join(root, "sub"), m.tree.Root())

	press(m, "backspace")
	assert.Equal(t, root, m.tree.Root())
	entry := m.selectedEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "sub", entry.Name)
	assert.True(t, entry.Expanded)
}

func TestExpandOnlyNeverCollapses(t *testing.T) {
	m := newTestModel(t, "sub/inner.txt")

	press(m, "l")
	entry := m.selectedEntry()
	require.True(t, entry.Expanded)
	assert.Equal(t, []string{"sub", "inner.txt"}, entryNames(m))

	press(m, "l")
	assert.True(t, m.selectedEntry().Expanded)
	assert.Equal(t, []string{"sub", "inner.txt"}, entryNames(m))
}

func TestTabTogglesExpansion(t *testing.T) {
	m := newTestModel(t, "sub/inner.txt")

	press(m, "tab")
	assert.Equal(t, []string{"sub", "inner.txt"}, entryNames(m))

	press(m, "tab")
	assert.Equal(t, []string{"sub"}, entryNames(m))
}

func TestCollapseOrParent(t *testing.T) {
	m := newTestModel(t, "sub/inner.txt")
	root := m.tree.Root()

	// On a child row h jumps to the visible parent.
	press(m, "l")
	m.moveCursor(1)
	require.Equal(t, "inner.txt", m.selectedEntry().Name)
	press(m, "h")
	assert.Equal(t, "sub", m.selectedEntry().Name)

	// On an expanded directory h collapses it.
	press(m, "h")
	assert.False(t, m.selectedEntry().Expanded)
	assert.Equal(t, []string{"sub"}, entryNames(m))

	// On a collapsed top-level entry h re-roots upward.
	press(m, "h")
	assert.Equal(t, filepath.Dir(root), m.tree.Root())
}

func TestToggleHiddenRevealsDotfiles(t *testing.T) {
	m := newTestModel(t, ".secret", "plain.txt")
	assert.Equal(t, []string{"plain.txt"}, entryNames(m))

	press(m, ".")
	assert.Equal(t, []string{".secret", "plain.txt"}, entryNames(m))

	press(m, ".")
	assert.Equal(t, []string{"plain.txt"}, entryNames(m))
}

func TestResizeSplitClamps(t *testing.T) {
	m := newTestModel(t, "a.txt")
	require.Equal(t, 30, m.treeRatio)

	for i := 0; i < 10; i++ {
		press(m, "<")
	}
	assert.Equal(t, treeRatioMin, m.treeRatio)

	for i := 0; i < 20; i++ {
		press(m, ">")
	}
	assert.Equal(t, treeRatioMax, m.treeRatio)
}

func TestFilterNarrowsAndEscRestores(t *testing.T) {
	m := newTestModel(t, "apple.txt", "banana.txt", "cherry.txt")
	m.moveCursor(2)
	require.Equal(t, "cherry.txt", m.selectedEntry().Name)

	press(m, "/")
	require.Equal(t, modeFilter, m.mode)
	press(m, "ban")
	assert.Equal(t, []string{"banana.txt"}, entryNames(m))
	assert.Equal(t, "banana.txt", m.selectedEntry().Name)

	press(m, "esc")
	assert.Equal(t, modeNormal, m.mode)
	assert.Equal(t, "", m.filterQuery)
	assert.Equal(t, "cherry.txt", m.selectedEntry().Name)
}

func TestFilterEnterKeepsSelection(t *testing.T) {
	m := newTestModel(t, "apple.txt", "banana.txt", "cherry.txt")

	press(m, "/")
	press(m, "ban")
	require.Equal(t, "banana.txt", m.selectedEntry().Name)

	press(m, "enter")
	assert.Equal(t, modeNormal, m.mode)
	assert.Equal(t, "", m.filterQuery)
	assert.Equal(t, "banana.txt", m.selectedEntry().Name)
	assert.Equal(t, []string{"apple.txt", "banana.txt", "cherry.txt"}, entryNames(m))
}

func TestCreateFileFlow(t *testing.T) {
	m := newTestModel(t, "a.txt")

	press(m, "a")
	require.Equal(t, modePrompt, m.mode)
	require.Equal(t, "New file", m.promptTitle)

	press(m, "new.txt")
	press(m, "enter")

	assert.Equal(t, modeNormal, m.mode)
	assert.Equal(t, "Created: new.txt", m.statusMessage)
	assert.FileExists(t, filepath.Join(m.tree.Root(), "new.txt"))
	assert.Equal(t, "new.txt", m.selectedEntry().Name)
}

func TestCreateFileRejectsEmptyName(t *testing.T) {
	m := newTestModel(t, "a.txt")

	press(m, "a")
	press(m, "enter")
	assert.Equal(t, "Name cannot be empty", m.statusMessage)
}

func TestCreateFileReportsExisting(t *testing.T) {
	m := newTestModel(t, "a.txt")

	press(m, "a")
	press(m, "a.txt")
	press(m, "enter")
	assert.Equal(t, "a.txt already exists", m.statusMessage)
}

func TestCreateDirFlow(t *testing.T) {
	m := newTestModel(t, "a.txt")

	press(m, "A")
	require.Equal(t, "New directory", m.promptTitle)
	press(m, "docs")
	press(m, "enter")

	assert.Equal(t, "Created dir: docs", m.statusMessage)
	assert.DirExists(t, filepath.Join(m.tree.Root(), "docs"))
	assert.Equal(t, "docs", m.selectedEntry().Name)
}

func TestCreateInsideSelectedDirectory(t *testing.T) {
	m := newTestModel(t, "sub/", "z.txt")
	require.Equal(t, "sub", m.selectedEntry().Name)

	press(m, "a")
	press(m, "inner.txt")
	press(m, "enter")

	assert.FileExists(t, filepath.Join(m.tree.Root(), "sub", "inner.txt"))
}

func TestRenameFlow(t *testing.T) {
	m := newTestModel(t, "old.txt")

	press(m, "r")
	require.Equal(t, modePrompt, m.mode)
	assert.Equal(t, "old.txt", m.promptInput.Value())

	m.promptInput.SetValue("fresh.txt")
	press(m, "enter")

	assert.Equal(t, "Renamed to fresh.txt", m.statusMessage)
	assert.NoFileExists(t, filepath.Join(m.tree.Root(), "old.txt"))
	assert.FileExists(t, filepath.Join(m.tree.Root(), "fresh.txt"))
	assert.Equal(t, "fresh.txt", m.selectedEntry().Name)
}

func TestRenameReportsExistingTarget(t *testing.T) {
	m := newTestModel(t, "a.txt", "b.txt")

	press(m, "r")
	m.promptInput.SetValue("b.txt")
	press(m, "enter")

	assert.Equal(t, "b.txt already exists", m.statusMessage)
	assert.FileExists(t, filepath.Join(m.tree.Root(), "a.txt"))
}

func TestRenameUpdatesClipboardPath(t *testing.T) {
	m := newTestModel(t, "a.txt")
	root := m.tree.Root()

	press(m, "c")
	require.Equal(t, []string{filepath.Join(root, "a.txt")}, m.clipboard.paths)

	press(m, "r")
	m.promptInput.SetValue("b.txt")
	press(m, "enter")

	assert.Equal(t, []string{filepath.Join(root, "b.txt")}, m.clipboard.paths)
}

func TestPromptEscCancels(t *testing.T) {
	m := newTestModel(t, "a.txt")

	press(m, "a")
	press(m, "nope.txt")
	press(m, "esc")

	assert.Equal(t, modeNormal, m.mode)
	assert.NoFileExists(t, filepath.Join(m.tree.Root(), "nope.txt"))
}

func TestDeleteConfirmFlow(t *testing.T) {
	m := newTestModel(t, "a.txt")
	path := filepath.Join(m.tree.Root(), "a.txt")

	press(m, "d")
	require.Equal(t, modeConfirm, m.mode)
	assert.Equal(t, "Delete a.txt?", m.confirmMessage)

	press(m, "y")
	assert.Equal(t, modeNormal, m.mode)
	assert.Equal(t, "Deleted: a.txt", m.statusMessage)
	assert.NoFileExists(t, path)
}

func TestDeleteDeclined(t *testing.T) {
	m := newTestModel(t, "a.txt")
	path := filepath.Join(m.tree.Root(), "a.txt")

	press(m, "d")
	press(m, "n")
	assert.Equal(t, modeNormal, m.mode)
	assert.FileExists(t, path)
}

func TestDeleteClearsClipboardReference(t *testing.T) {
	m := newTestModel(t, "a.txt")

	press(m, "c")
	require.Len(t, m.clipboard.paths, 1)

	press(m, "d")
	press(m, "y")
	assert.Empty(t, m.clipboard.paths)
	assert.Equal(t, clipNone, m.clipboard.op)
}

func TestPasteNothing(t *testing.T) {
	m := newTestModel(t, "a.txt")
	press(m, "p")
	assert.Equal(t, "Nothing to paste", m.statusMessage)
}

func TestCopyPasteIntoDirectory(t *testing.T) {
	m := newTestModel(t, "sub/", "a.txt")
	root := m.tree.Root()

	m.repositionCursorTo(filepath.Join(root, "a.txt"))
	press(m, "c")
	assert.Equal(t, "Copied: a.txt", m.statusMessage)

	m.repositionCursorTo(filepath.Join(root, "sub"))
	press(m, "p")

	assert.Equal(t, "Pasted", m.statusMessage)
	assert.FileExists(t, filepath.Join(root, "a.txt"))
	assert.FileExists(t, filepath.Join(root, "sub", "a.txt"))
	// Copy survives a paste so it can be pasted again.
	assert.Equal(t, clipCopy, m.clipboard.op)
}

func TestCopyPasteSameDirGetsCopySuffix(t *testing.T) {
	m := newTestModel(t, "a.txt")
	root := m.tree.Root()

	press(m, "c")
	press(m, "p")

	assert.FileExists(t, filepath.Join(root, "a_copy.txt"))
	assert.Equal(t, "a_copy.txt", m.selectedEntry().Name)
}

func TestCutPasteMovesFile(t *testing.T) {
	m := newTestModel(t, "sub/", "a.txt")
	root := m.tree.Root()

	m.repositionCursorTo(filepath.Join(root, "a.txt"))
	press(m, "x")
	assert.Equal(t, "Cut: a.txt", m.statusMessage)

	m.repositionCursorTo(filepath.Join(root, "sub"))
	press(m, "p")

	assert.NoFileExists(t, filepath.Join(root, "a.txt"))
	assert.FileExists(t, filepath.Join(root, "sub", "a.txt"))
	assert.Equal(t, clipNone, m.clipboard.op)
	assert.Empty(t, m.clipboard.paths)
}

func TestCutPasteSamePlaceIsNoop(t *testing.T) {
	m := newTestModel(t, "a.txt")
	root := m.tree.Root()

	press(m, "x")
	press(m, "p")

	assert.Equal(t, "Pasted", m.statusMessage)
	assert.FileExists(t, filepath.Join(root, "a.txt"))
	assert.NoFileExists(t, filepath.Join(root, "a_copy.txt"))
}

func TestPasteMissingSource(t *testing.T) {
	m := newTestModel(t, "a.txt")
	root := m.tree.Root()

	press(m, "c")
	require.NoError(t, os.Remove(filepath.Join(root, "a.txt")))

	press(m, "p")
	assert.True(t, strings.HasPrefix(m.statusMessage, "Source no longer exists:"), m.statusMessage)
}

func TestYankSetsStatus(t *testing.T) {
	m := newTestModel(t, "a.txt")
	press(m, "y")
	// Headless environments have no system clipboard, so only the
	// attempt is asserted.
	assert.True(t, strings.HasPrefix(m.statusMessage, "Yank"), m.statusMessage)
}

func TestToggleFavoriteOnSelectedDir(t *testing.T) {
	m := newTestModel(t, "sub/", "a.txt")
	root := m.tree.Root()

	press(m, "f")
	assert.Equal(t, "Added to favorites", m.statusMessage)
	assert.True(t, m.favs.Contains(filepath.Join(root, "sub")))

	press(m, "f")
	assert.Equal(t, "Removed from favorites", m.statusMessage)
	assert.False(t, m.favs.Contains(filepath.Join(root, "sub")))
}

func TestToggleFavoriteFallsBackToRoot(t *testing.T) {
	m := newTestModel(t, "a.txt")

	press(m, "f")
	assert.True(t, m.favs.Contains(m.tree.Root()))
}

func TestFavoritesJump(t *testing.T) {
	m := newTestModel(t, "sub/inner.txt", "a.txt")
	root := m.tree.Root()

	press(m, "f")
	require.True(t, m.favs.Contains(filepath.Join(root, "sub")))

	// Move away, then jump back through the popup.
	press(m, "backspace")
	require.Equal(t, filepath.Dir(root), m.tree.Root())

	press(m, "F")
	require.Equal(t, modeFavorites, m.mode)
	press(m, "enter")

	assert.Equal(t, modeNormal, m.mode)
	assert.Equal(t, filepath.Join(root, "sub"), m.tree.Root())
	assert.Equal(t, []string{"inner.txt"}, entryNames(m))
}

func TestFavoritesRemoveAndAdd(t *testing.T) {
	m := newTestModel(t, "a.txt")

	press(m, "F")
	press(m, "a")
	assert.Equal(t, "Added to favorites", m.statusMessage)
	require.Equal(t, 1, m.favs.Len())

	press(m, "a")
	assert.Equal(t, "Already in favorites", m.statusMessage)

	press(m, "d")
	assert.Equal(t, 0, m.favs.Len())

	press(m, "esc")
	assert.Equal(t, modeNormal, m.mode)
}

func TestFavoritesMissingDirectoryStays(t *testing.T) {
	m := newTestModel(t, "sub/", "a.txt")
	root := m.tree.Root()

	press(m, "f")
	require.NoError(t, os.RemoveAll(filepath.Join(root, "sub")))

	press(m, "F")
	press(m, "enter")
	assert.Equal(t, modeFavorites, m.mode)
	assert.Equal(t, "Directory no longer exists", m.statusMessage)
	assert.Equal(t, root, m.tree.Root())
}

func TestHelpOpensAndCloses(t *testing.T) {
	m := newTestModel(t, "a.txt")

	press(m, "?")
	require.Equal(t, modeHelp, m.mode)
	assert.Contains(t, m.helpView.View(), "Navigation")

	press(m, "?")
	assert.Equal(t, modeNormal, m.mode)
}

func TestOpenEditorSkipsDirectories(t *testing.T) {
	m := newTestModel(t, "sub/")
	assert.Nil(t, m.openEditor())
}

func TestOpenEditorRunsOnFile(t *testing.T) {
	m := newTestModel(t, "a.txt")
	m.config.Editor = "true"
	assert.NotNil(t, m.openEditor())
}
