package viewport

// ScrollTo makes line the first visible line.
func (v *Viewport) ScrollTo(line int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.topLine = v.clampTop(line)
}

// ScrollBy scrolls by delta lines. Negative values scroll up.
func (v *Viewport) ScrollBy(delta int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.topLine = v.clampTop(v.topLine + delta)
}

// PageUp scrolls up by one screen.
func (v *Viewport) PageUp() {
	v.ScrollBy(-v.Height())
}

// PageDown scrolls down by one screen.
func (v *Viewport) PageDown() {
	v.ScrollBy(v.Height())
}

// ScrollToTop shows the first line.
func (v *Viewport) ScrollToTop() {
	v.ScrollTo(0)
}

// ScrollToBottom shows the last page of the buffer.
func (v *Viewport) ScrollToBottom() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.lineCount == 0 {
		return
	}
	v.topLine = v.clampTop(v.lineCount - v.height)
}

// EnsureRangeVisible scrolls so that startLine..endLine is on screen,
// centering the range when it fits. When it does not fit the start line is
// kept at the top. Returns true if the viewport moved.
func (v *Viewport) EnsureRangeVisible(startLine, endLine int) bool {
	if endLine < startLine {
		startLine, endLine = endLine, startLine
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if startLine >= v.topLine && endLine <= v.bottomLine() {
		return false
	}

	size := endLine - startLine + 1
	top := startLine
	if size <= v.height {
		top = startLine + size/2 - v.height/2
	}
	top = v.clampTop(top)
	if top == v.topLine {
		return false
	}
	v.topLine = top
	return true
}
