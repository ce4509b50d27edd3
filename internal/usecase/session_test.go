package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/kalah-client/internal/entity"
)

func runSession(t *testing.T, f *fixture) (*Session, <-chan error) {
	t.Helper()

	s := NewSession(discardLogger(), f.dispatcher)
	errCh := make(chan error, 1)

	go func() {
		errCh <- s.Run(context.Background())
	}()

	return s, errCh
}

func waitDone(t *testing.T, errCh <-chan error) {
	t.Helper()

	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("session loop did not stop")
	}
}

func TestSession_ProcessesInputsInOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.sender.On("Send", mock.Anything, []byte("2")).Return(nil).Once()
	s, errCh := runSession(t, f)

	// Given: identity and pairing arrive through the transport callbacks
	s.OnMessage([]byte(`{"type":"WaitingForOpponent","playerId":"A"}`))
	s.OnMessage([]byte(`{"type":"ReadyToStart","opponentId":"B","nextPlayerId":"A"}`))

	// When: the player picks pit 2 and then the store
	sentPit := s.Move(ctx, 2)
	sentStore := s.Move(ctx, 6)

	// Then: only the playable pit went out
	assert.True(t, sentPit)
	assert.False(t, sentStore)

	view, ok := s.View(ctx)
	require.True(t, ok)
	assert.Equal(t, entity.PhaseActive, view.Phase)
	assert.Equal(t, entity.PlayerID("B"), view.OpponentID)

	// When: the connection closes
	s.OnConnectionLost(nil)

	// Then: the loop stops and further input is refused
	waitDone(t, errCh)
	<-s.Done()
	assert.False(t, s.Submit(Inbound{Data: []byte(`{"type":"GameOver","winnerId":"A"}`)}))
	assert.False(t, s.Move(ctx, 1))

	_, ok = s.View(ctx)
	assert.False(t, ok)
	assert.Equal(t, entity.PhaseDisconnected, f.dispatcher.Snapshot().Phase)
	f.sender.AssertExpectations(t)
}

func TestSession_StopsOnCancel(t *testing.T) {
	f := newFixture(t)
	s := NewSession(discardLogger(), f.dispatcher)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Run(ctx)
	}()

	cancel()

	waitDone(t, errCh)
	assert.False(t, s.Submit(Lost{}))
	assert.Equal(t, entity.PhaseConnecting, f.dispatcher.Snapshot().Phase)
}
