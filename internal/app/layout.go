package app

// layoutDims holds computed layout dimensions for the UI.
type layoutDims struct {
	width              int
	height             int
	headerHeight       int
	footerHeight       int
	filterHeight       int
	bodyHeight         int
	gapX               int
	treeWidth          int
	previewWidth       int
	treeInnerWidth     int
	previewInnerWidth  int
	treeInnerHeight    int
	previewInnerHeight int
}

const (
	minTreePaneWidth    = 20
	minPreviewPaneWidth = 24
)

// setWindowSize updates the window dimensions and applies the layout.
func (m *Model) setWindowSize(width, height int) {
	m.windowWidth = width
	m.windowHeight = height
	m.applyLayout(m.computeLayout())
	m.adjustScroll()
}

// computeLayout calculates pane dimensions from the window size and the
// current split ratio.
func (m *Model) computeLayout() layoutDims {
	width := m.windowWidth
	height := m.windowHeight
	if width <= 0 {
		width = 120
	}
	if height <= 0 {
		height = 40
	}

	headerHeight := 1
	footerHeight := 1
	filterHeight := 0
	if m.mode == modeFilter {
		filterHeight = 1
	}
	gapX := 1

	bodyHeight := maxInt(height-headerHeight-footerHeight-filterHeight, 8)

	treeWidth := (width - gapX) * m.treeRatio / 100
	previewWidth := width - treeWidth - gapX
	if treeWidth < minTreePaneWidth {
		treeWidth = minTreePaneWidth
		previewWidth = width - treeWidth - gapX
	}
	if previewWidth < minPreviewPaneWidth {
		previewWidth = minPreviewPaneWidth
		treeWidth = width - previewWidth - gapX
	}
	if treeWidth < minTreePaneWidth {
		treeWidth = minTreePaneWidth
	}
	if previewWidth < 0 {
		previewWidth = 0
	}

	paneFrameX := m.basePaneStyle().GetHorizontalFrameSize()
	paneFrameY := m.basePaneStyle().GetVerticalFrameSize()

	return layoutDims{
		width:              width,
		height:             height,
		headerHeight:       headerHeight,
		footerHeight:       footerHeight,
		filterHeight:       filterHeight,
		bodyHeight:         bodyHeight,
		gapX:               gapX,
		treeWidth:          treeWidth,
		previewWidth:       previewWidth,
		treeInnerWidth:     maxInt(1, treeWidth-paneFrameX),
		previewInnerWidth:  maxInt(1, previewWidth-paneFrameX),
		treeInnerHeight:    maxInt(1, bodyHeight-paneFrameY),
		previewInnerHeight: maxInt(1, bodyHeight-paneFrameY),
	}
}

// applyLayout applies the computed layout dimensions to UI components.
func (m *Model) applyLayout(layout layoutDims) {
	m.filterInput.Width = maxInt(20, layout.width-18)
	m.promptInput.Width = maxInt(20, minInt(48, layout.width-12))
	m.helpView.Width = minInt(46, maxInt(30, layout.width-8))
	m.helpView.Height = maxInt(8, layout.bodyHeight-6)
}

// treeVisibleRows is the number of entry rows the tree pane can show
// below its title line.
func (m *Model) treeVisibleRows() int {
	return maxInt(1, m.computeLayout().treeInnerHeight-1)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
