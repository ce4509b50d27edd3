package usecase

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/rocketscienceinc/kalah-client/internal/boardview"
	"github.com/rocketscienceinc/kalah-client/internal/entity"
)

type mockSender struct {
	mock.Mock
}

func (that *mockSender) Send(ctx context.Context, payload []byte) error {
	args := that.Called(ctx, payload)
	return args.Error(0)
}

type mockSessionRepo struct {
	mock.Mock
}

func (that *mockSessionRepo) CreateOrUpdate(ctx context.Context, record *entity.SessionRecord) error {
	args := that.Called(ctx, record)
	return args.Error(0)
}

type mockHistory struct {
	mock.Mock
}

func (that *mockHistory) Record(ctx context.Context, view entity.SessionView) error {
	args := that.Called(ctx, view)
	return args.Error(0)
}

func (that *mockHistory) CountMove(ctx context.Context) error {
	args := that.Called(ctx)
	return args.Error(0)
}

// recordingNotifier keeps everything presentation would have shown.
type recordingNotifier struct {
	mu sync.Mutex

	identities   [][3]entity.PlayerID
	resets       []boardview.Layout
	layouts      []boardview.Layout
	illegal      []string
	invalid      []string
	sent         []int
	outcomes     []entity.Outcome
	disconnected []error
}

func (that *recordingNotifier) Identity(local, opponent, next entity.PlayerID) {
	that.mu.Lock()
	defer that.mu.Unlock()
	that.identities = append(that.identities, [3]entity.PlayerID{local, opponent, next})
}

func (that *recordingNotifier) BoardReset(layout boardview.Layout) {
	that.mu.Lock()
	defer that.mu.Unlock()
	that.resets = append(that.resets, layout)
}

func (that *recordingNotifier) BoardChanged(layout boardview.Layout) {
	that.mu.Lock()
	defer that.mu.Unlock()
	that.layouts = append(that.layouts, layout)
}

func (that *recordingNotifier) IllegalMove(reason string) {
	that.mu.Lock()
	defer that.mu.Unlock()
	that.illegal = append(that.illegal, reason)
}

func (that *recordingNotifier) InvalidEvent(raw []byte) {
	that.mu.Lock()
	defer that.mu.Unlock()
	that.invalid = append(that.invalid, string(raw))
}

func (that *recordingNotifier) MoveSent(pit int) {
	that.mu.Lock()
	defer that.mu.Unlock()
	that.sent = append(that.sent, pit)
}

func (that *recordingNotifier) GameOver(outcome entity.Outcome) {
	that.mu.Lock()
	defer that.mu.Unlock()
	that.outcomes = append(that.outcomes, outcome)
}

func (that *recordingNotifier) ConnectionLost(cause error) {
	that.mu.Lock()
	defer that.mu.Unlock()
	that.disconnected = append(that.disconnected, cause)
}

func (that *recordingNotifier) lostCount() int {
	that.mu.Lock()
	defer that.mu.Unlock()
	return len(that.disconnected)
}
