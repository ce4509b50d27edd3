// Package presenter draws the session in the terminal and turns key presses
// back into pit choices.
package presenter

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/rocketscienceinc/kalah-client/internal/boardview"
	"github.com/rocketscienceinc/kalah-client/internal/entity"
)

const (
	statusConnecting = "Connecting..."
	statusWaiting    = "Connected. Waiting for opponent..."
	statusPaired     = "Paired. Waiting for move..."
	statusBoard      = "Received board state."
	statusWin        = "You win!"
	statusLoss       = "You lost!"
	statusNoWinner   = "Game over. No winner."
	statusLost       = "Connection lost!"

	keysHint = " ←/→ choose pit   ⏎ play   0-9 play pit   q quit"
)

type mover interface {
	Move(ctx context.Context, pit int) bool
}

// Terminal shows identity, board and status lines in a tview application.
// Notifications come from the session loop and never wait for the screen.
type Terminal struct {
	app      *tview.Application
	identity *tview.TextView
	status   *tview.TextView
	board    *Board
	root     *tview.Flex

	redraw chan struct{}

	mu         sync.Mutex
	transcript []string
	ctx        context.Context
	session    mover
}

func NewTerminal(app *tview.Application) *Terminal {
	that := &Terminal{
		app:      app,
		identity: tview.NewTextView(),
		status:   tview.NewTextView().SetScrollable(false),
		board:    NewBoard(),
		redraw:   make(chan struct{}, 1),
	}

	that.identity.SetBorder(true).SetTitle(" Players ")
	that.status.SetBorder(true).SetTitle(" Status ")

	that.root = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(that.identity, 5, 0, false).
		AddItem(that.board.Box, boardHeight, 0, true).
		AddItem(that.status, 0, 1, false).
		AddItem(tview.NewTextView().SetText(keysHint), 1, 0, false)

	return that
}

// Run shows the session until the player quits or ctx is cancelled.
// Chosen pits are played on session.
func (that *Terminal) Run(ctx context.Context, session mover) error {
	that.bind(ctx, session)

	that.app.SetRoot(that.root, true).
		SetFocus(that.board.Box).
		SetInputCapture(that.handleKey)

	if ctx.Err() != nil {
		return nil
	}

	stop := context.AfterFunc(ctx, that.app.Stop)
	defer stop()

	done := make(chan struct{})
	defer close(done)
	go that.pumpRedraws(done)

	return that.app.Run()
}

// Transcript returns every status line shown so far.
func (that *Terminal) Transcript() []string {
	that.mu.Lock()
	defer that.mu.Unlock()

	return slices.Clone(that.transcript)
}

// Connecting is shown once before the connection is dialled.
func (that *Terminal) Connecting() {
	that.println(statusConnecting)
}

func (that *Terminal) PhaseChanged(_, to entity.Phase) {
	switch to {
	case entity.PhaseWaitingForOpponent:
		that.println(statusWaiting)
	case entity.PhaseActive:
		that.println(statusPaired)
	default:
		// finished and disconnected have their own notifications
	}
}

func (that *Terminal) Identity(local, opponent, next entity.PlayerID) {
	lines := make([]string, 0, 3)
	if !local.IsEmpty() {
		lines = append(lines, "Player: "+local.String())
	}
	if !opponent.IsEmpty() {
		lines = append(lines, "Opponent: "+opponent.String())
	}
	if !next.IsEmpty() {
		lines = append(lines, "Next player: "+next.String())
	}

	that.identity.SetText(strings.Join(lines, "\n"))
	that.requestDraw()
}

func (that *Terminal) BoardReset(layout boardview.Layout) {
	that.board.SetLayout(layout)
	that.requestDraw()
}

func (that *Terminal) BoardChanged(layout boardview.Layout) {
	that.board.SetLayout(layout)
	that.println(statusBoard)
}

func (that *Terminal) IllegalMove(reason string) {
	that.println("Illegal move: " + reason)
}

func (that *Terminal) InvalidEvent(raw []byte) {
	that.println("Invalid WS event: " + string(raw))
}

func (that *Terminal) MoveSent(pit int) {
	that.println(fmt.Sprintf("Pit %d is clicked.", pit))
}

func (that *Terminal) GameOver(outcome entity.Outcome) {
	that.board.Disable()

	switch outcome {
	case entity.OutcomeWin:
		that.println(statusWin)
	case entity.OutcomeLoss:
		that.println(statusLoss)
	default:
		that.println(statusNoWinner)
	}
}

func (that *Terminal) ConnectionLost(_ error) {
	that.board.Disable()
	that.println(statusLost)
}

func (that *Terminal) handleKey(event *tcell.EventKey) *tcell.EventKey {
	switch event.Key() {
	case tcell.KeyLeft:
		that.board.MoveSelection(-1)
		return nil
	case tcell.KeyRight:
		that.board.MoveSelection(1)
		return nil
	case tcell.KeyEnter:
		if pit, ok := that.board.SelectedPit(); ok {
			that.play(pit)
		}
		return nil
	case tcell.KeyRune:
		switch r := event.Rune(); {
		case r == 'q':
			that.app.Stop()
			return nil
		case r == 'h':
			that.board.MoveSelection(-1)
			return nil
		case r == 'l':
			that.board.MoveSelection(1)
			return nil
		case r >= '0' && r <= '9':
			that.play(int(r - '0'))
			return nil
		}
	}

	return event
}

// play hands the pit to the session off the UI goroutine; refusals stay silent.
func (that *Terminal) play(pit int) {
	that.mu.Lock()
	ctx, session := that.ctx, that.session
	that.mu.Unlock()

	if session == nil {
		return
	}

	go session.Move(ctx, pit)
}

func (that *Terminal) bind(ctx context.Context, session mover) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.ctx = ctx
	that.session = session
}

func (that *Terminal) println(line string) {
	that.mu.Lock()
	that.transcript = append(that.transcript, line)
	that.mu.Unlock()

	// the text view locks its own buffer
	_, _ = fmt.Fprintln(that.status, line)

	that.requestDraw()
}

func (that *Terminal) requestDraw() {
	select {
	case that.redraw <- struct{}{}:
	default:
	}
}

func (that *Terminal) pumpRedraws(done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case <-that.redraw:
			that.app.Draw()
		}
	}
}
