package presenter

import (
	"fmt"
	"slices"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/rocketscienceinc/kalah-client/internal/boardview"
)

const (
	// pitWidth is the number of columns one pit takes, gap included.
	pitWidth = 5
	// boardHeight fits the four board rows inside the border.
	boardHeight = 6
)

var (
	pitStyle        = tcell.StyleDefault
	selectableStyle = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	cursorStyle     = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorGreen).Bold(true)
	storeStyle      = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	indexStyle      = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

// Board draws the opponent row mirrored on top, both stores in the middle row
// and the local row with its pit indices underneath. Selectable pits are
// highlighted and the cursor only ever rests on one of them.
type Board struct {
	Box *tview.Box

	mu       sync.Mutex
	layout   boardview.Layout
	selected int
}

func NewBoard() *Board {
	board := &Board{
		Box:      tview.NewBox(),
		selected: -1,
	}

	board.Box.SetBorder(true).SetTitle(" Kalah ")
	board.Box.SetDrawFunc(board.draw)

	return board
}

// SetLayout replaces what is drawn. The cursor stays on its pit when that pit
// is still selectable and jumps to the first selectable pit otherwise.
func (that *Board) SetLayout(layout boardview.Layout) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.layout = layout

	switch {
	case len(layout.Selectable) == 0:
		that.selected = -1
	case !slices.Contains(layout.Selectable, that.selected):
		that.selected = layout.Selectable[0]
	}
}

// Disable keeps the last board on screen with nothing left to play.
func (that *Board) Disable() {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.layout.Selectable = nil
	that.selected = -1
}

// MoveSelection steps the cursor over the selectable pits.
func (that *Board) MoveSelection(step int) {
	that.mu.Lock()
	defer that.mu.Unlock()

	selectable := that.layout.Selectable
	if len(selectable) == 0 {
		that.selected = -1
		return
	}

	i := slices.Index(selectable, that.selected)
	if i < 0 {
		that.selected = selectable[0]
		return
	}

	i = min(max(i+step, 0), len(selectable)-1)
	that.selected = selectable[i]
}

func (that *Board) SelectedPit() (int, bool) {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.selected, that.selected >= 0
}

func (that *Board) draw(screen tcell.Screen, x, y, width, height int) (int, int, int, int) {
	that.mu.Lock()
	defer that.mu.Unlock()

	innerX, innerY := x+1, y+1

	own := that.layout.Own.Playable()
	if len(own) == 0 {
		drawText(screen, innerX+1, innerY+1, "Waiting for the board...", indexStyle)
		return innerX, innerY, width - 2, height - 2
	}

	theirs := slices.Clone(that.layout.Opponent.Playable())
	slices.Reverse(theirs)

	left := innerX + pitWidth

	for i, count := range theirs {
		drawText(screen, left+i*pitWidth, innerY, pitText(count), pitStyle)
	}

	drawText(screen, innerX, innerY+1, storeText(that.layout.OpponentStore), storeStyle)
	drawText(screen, left+len(own)*pitWidth, innerY+1, storeText(that.layout.OwnStore), storeStyle)

	for i, count := range own {
		style := pitStyle
		switch {
		case i == that.selected:
			style = cursorStyle
		case slices.Contains(that.layout.Selectable, i):
			style = selectableStyle
		}

		drawText(screen, left+i*pitWidth, innerY+2, pitText(count), style)
		drawText(screen, left+i*pitWidth, innerY+3, pitText(i), indexStyle)
	}

	return innerX, innerY, width - 2, height - 2
}

func pitText(n int) string {
	return fmt.Sprintf(" %2d ", n)
}

func storeText(n int) string {
	return fmt.Sprintf("[%2d]", n)
}

func drawText(screen tcell.Screen, x, y int, text string, style tcell.Style) {
	for i, r := range []rune(text) {
		screen.SetContent(x+i, y, r, nil, style)
	}
}
