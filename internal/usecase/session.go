package usecase

import (
	"context"
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/kalah-client/internal/entity"
)

// Input is one unit of work for the session loop.
type Input interface{ isInput() }

// Inbound carries a raw server message.
type Inbound struct {
	Data []byte
}

// MoveRequest is a pit selection made by the player. Reply may be nil.
type MoveRequest struct {
	Pit   int
	Reply chan bool
}

// Lost reports that the transport failed or was closed.
type Lost struct {
	Err error
}

// Query asks for the current session view.
type Query struct {
	Reply chan entity.SessionView
}

func (Inbound) isInput() {}
func (MoveRequest) isInput() {}
func (Lost) isInput() {}
func (Query) isInput() {}

// Session serialises every input through one goroutine, so the dispatcher
// and everything behind it only ever sees one writer.
type Session struct {
	logger     *slog.Logger
	dispatcher *Dispatcher

	inbox    chan Input
	done     chan struct{}
	stopOnce sync.Once
}

func NewSession(logger *slog.Logger, dispatcher *Dispatcher) *Session {
	return &Session{
		logger:     logger.With("component", "session"),
		dispatcher: dispatcher,

		inbox: make(chan Input, 64),
		done:  make(chan struct{}),
	}
}

// Done is closed once Run has returned.
func (that *Session) Done() <-chan struct{} { return that.done }

// Run processes inputs one at a time until the session is disconnected or ctx is cancelled.
func (that *Session) Run(ctx context.Context) error {
	defer that.stop()

	for {
		select {
		case <-ctx.Done():
			that.logger.Info("session loop cancelled")
			return nil

		case in := <-that.inbox:
			that.handle(ctx, in)

			if that.dispatcher.Closed() {
				that.logger.Info("session disconnected")
				return nil
			}
		}
	}
}

func (that *Session) handle(ctx context.Context, in Input) {
	log := that.logger.With("method", "handle")

	switch msg := in.(type) {
	case Inbound:
		if err := that.dispatcher.HandleMessage(ctx, msg.Data); err != nil {
			log.Warn("inbound message not applied", "error", err)
		}

	case MoveRequest:
		sent, err := that.dispatcher.AttemptMove(ctx, msg.Pit)
		if err != nil {
			log.Error("failed to send move", "pit", msg.Pit, "error", err)
		}

		if msg.Reply != nil {
			msg.Reply <- sent
		}

	case Lost:
		that.dispatcher.ConnectionLost(ctx, msg.Err)

	case Query:
		msg.Reply <- that.dispatcher.Snapshot()
	}
}

func (that *Session) stop() {
	that.stopOnce.Do(func() { close(that.done) })
}

// Submit enqueues an input. It reports false once the loop has stopped.
func (that *Session) Submit(in Input) bool {
	select {
	case <-that.done:
		return false
	default:
	}

	select {
	case that.inbox <- in:
		return true
	case <-that.done:
		return false
	}
}

// OnMessage and OnConnectionLost let the session listen to a transport directly.
func (that *Session) OnMessage(data []byte) {
	that.Submit(Inbound{Data: data})
}

func (that *Session) OnConnectionLost(err error) {
	that.Submit(Lost{Err: err})
}

// Move asks the loop to play pit and reports whether a move was sent.
func (that *Session) Move(ctx context.Context, pit int) bool {
	reply := make(chan bool, 1)
	if !that.Submit(MoveRequest{Pit: pit, Reply: reply}) {
		return false
	}

	select {
	case sent := <-reply:
		return sent
	case <-that.done:
		select {
		case sent := <-reply:
			return sent
		default:
			return false
		}
	case <-ctx.Done():
		return false
	}
}

// View returns the current session view, false once the loop has stopped.
func (that *Session) View(ctx context.Context) (entity.SessionView, bool) {
	reply := make(chan entity.SessionView, 1)
	if !that.Submit(Query{Reply: reply}) {
		return entity.SessionView{}, false
	}

	select {
	case view := <-reply:
		return view, true
	case <-that.done:
		select {
		case view := <-reply:
			return view, true
		default:
			return entity.SessionView{}, false
		}
	case <-ctx.Done():
		return entity.SessionView{}, false
	}
}
