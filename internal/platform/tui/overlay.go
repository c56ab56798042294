package tui

import (
	"github.com/vovakirdan/ascent/internal/core"
)

// overlayKind identifies which in-game menu is open.
type overlayKind int

const (
	overlayNone overlayKind = iota
	overlayPause
	overlayComplete
	overlayCongrats
)

// overlayItem is one selectable entry of an in-game menu.
type overlayItem int

const (
	itemResume overlayItem = iota
	itemRestart
	itemNextMap
	itemReplay
	itemFromStart
	itemMaps
	itemQuit
)

var overlayItemLabels = [...]string{
	itemResume:    "Resume",
	itemRestart:   "Restart",
	itemNextMap:   "Next map",
	itemReplay:    "Replay",
	itemFromStart: "Start over from the first map",
	itemMaps:      "Map select",
	itemQuit:      "Quit",
}

func (i overlayItem) String() string { return overlayItemLabels[i] }

// overlay is the pause or level-complete menu drawn over the level.
type overlay struct {
	kind   overlayKind
	title  string
	lines  []string // extra text under the title
	items  []overlayItem
	cursor int
}

func pauseOverlay() overlay {
	return overlay{
		kind:  overlayPause,
		title: "PAUSED",
		items: []overlayItem{itemResume, itemRestart, itemMaps, itemQuit},
	}
}

func completeOverlay(lines []string) overlay {
	return overlay{
		kind:  overlayComplete,
		title: "LEVEL COMPLETE",
		lines: lines,
		items: []overlayItem{itemNextMap, itemReplay, itemMaps, itemQuit},
	}
}

func congratsOverlay(lines []string) overlay {
	return overlay{
		kind:  overlayCongrats,
		title: "CONGRATULATIONS",
		lines: append([]string{"You finished every map!"}, lines...),
		items: []overlayItem{itemFromStart, itemReplay, itemQuit},
	}
}

func (o *overlay) up() {
	if o.cursor > 0 {
		o.cursor--
	}
}

func (o *overlay) down() {
	if o.cursor < len(o.items)-1 {
		o.cursor++
	}
}

func (o overlay) selected() overlayItem {
	return o.items[o.cursor]
}

// draw renders the menu as a centered box.
func (o overlay) draw(dst *core.Screen) {
	if o.kind == overlayNone {
		return
	}

	width := len([]rune(o.title))
	for _, l := range o.lines {
		width = max(width, len([]rune(l)))
	}
	for _, it := range o.items {
		width = max(width, len([]rune(it.String()))+2)
	}
	width += 4
	height := 4 + len(o.lines) + len(o.items)
	if len(o.lines) > 0 {
		height++
	}

	box := core.NewRect((dst.Width()-width)/2, (dst.Height()-height)/2, width, height)
	dst.FillRect(box, ' ', core.ColorDefault)
	dst.DrawBox(box, core.ColorWhite)

	y := box.Y + 1
	dst.DrawTextColored(box.X+(width-len([]rune(o.title)))/2, y, o.title, core.ColorBrightYellow)
	y += 2
	for _, l := range o.lines {
		dst.DrawTextColored(box.X+2, y, l, core.ColorWhite)
		y++
	}
	if len(o.lines) > 0 {
		y++
	}
	for i, it := range o.items {
		label, color := "  "+it.String(), core.ColorGray
		if i == o.cursor {
			label, color = "> "+it.String(), core.ColorBrightWhite
		}
		dst.DrawTextColored(box.X+2, y, label, color)
		y++
	}
}
