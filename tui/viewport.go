// viewport.go provides a reusable scrollable viewport with both
// vertical and horizontal scrolling.
//
// Used by every panel that can outgrow the content frame.
package tui

import (
	"strconv"
	"strings"
)

// Viewport is a scrollable text area.
type Viewport struct {
	width   int
	height  int
	content []string // lines of content
	scrollY int      // vertical scroll offset (line index)
	scrollX int      // horizontal scroll offset (column index)
}

// NewViewport creates a viewport with the given dimensions.
func NewViewport(width, height int) *Viewport {
	return &Viewport{width: width, height: height}
}

// SetContentLines replaces the viewport content and resets scrolling.
func (v *Viewport) SetContentLines(lines []string) {
	v.content = lines
	v.scrollY = 0
	v.scrollX = 0
}

// SetSize updates viewport dimensions.
func (v *Viewport) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.clampScroll()
}

// ScrollUp moves the viewport up by n lines.
func (v *Viewport) ScrollUp(n int) {
	v.scrollY -= n
	v.clampScroll()
}

// ScrollDown moves the viewport down by n lines.
func (v *Viewport) ScrollDown(n int) {
	v.scrollY += n
	v.clampScroll()
}

// ScrollLeft moves the viewport left.
func (v *Viewport) ScrollLeft(n int) {
	v.scrollX -= n
	if v.scrollX < 0 {
		v.scrollX = 0
	}
}

// ScrollRight moves the viewport right.
func (v *Viewport) ScrollRight(n int) {
	v.scrollX += n
}

// PageUp scrolls up by one page.
func (v *Viewport) PageUp() { v.ScrollUp(v.height) }

// PageDown scrolls down by one page.
func (v *Viewport) PageDown() { v.ScrollDown(v.height) }

// Home scrolls to the top left.
func (v *Viewport) Home() {
	v.scrollY = 0
	v.scrollX = 0
}

// End scrolls to the bottom.
func (v *Viewport) End() { v.scrollY = v.maxScrollY() }

// Render returns the visible portion of the content.
func (v *Viewport) Render() string {
	if len(v.content) == 0 {
		return ""
	}

	end := v.scrollY + v.height
	if end > len(v.content) {
		end = len(v.content)
	}

	var visible []string
	for i := v.scrollY; i < end; i++ {
		line := v.content[i]
		if v.scrollX > 0 {
			if v.scrollX < len(line) {
				line = line[v.scrollX:]
			} else {
				line = ""
			}
		}
		if len(line) > v.width {
			line = line[:v.width]
		}
		visible = append(visible, line)
	}

	for len(visible) < v.height {
		visible = append(visible, "")
	}

	out := strings.Join(visible, "\n")
	if ind := v.scrollIndicator(); ind != "" {
		out += "\n" + ind
	}
	return out
}

func (v *Viewport) clampScroll() {
	maxY := v.maxScrollY()
	if v.scrollY > maxY {
		v.scrollY = maxY
	}
	if v.scrollY < 0 {
		v.scrollY = 0
	}
}

func (v *Viewport) maxScrollY() int {
	max := len(v.content) - v.height
	if max < 0 {
		return 0
	}
	return max
}

func (v *Viewport) scrollIndicator() string {
	if len(v.content) <= v.height {
		return ""
	}
	pct := 0
	if len(v.content) > 0 {
		pct = (v.scrollY * 100) / len(v.content)
	}
	return StyleDimmed.Render(
		strconv.Itoa(pct) + "% (" +
			strconv.Itoa(v.scrollY+1) + "/" + strconv.Itoa(len(v.content)) + ")")
}
