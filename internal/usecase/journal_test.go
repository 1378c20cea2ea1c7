package usecase

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/chess-backend/internal/entity"
)

type mockHistoryRepo struct {
	mock.Mock
}

func (that *mockHistoryRepo) Append(ctx context.Context, entry *entity.HistoryEntry) error {
	args := that.Called(ctx, entry)
	return args.Error(0)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestJournal_RecordAndRun(t *testing.T) {
	// Given: a journal whose repository records every entry it receives
	repo := new(mockHistoryRepo)

	written := make(chan *entity.HistoryEntry, 2)
	repo.On("Append", mock.Anything, mock.AnythingOfType("*entity.HistoryEntry")).
		Run(func(args mock.Arguments) {
			written <- args.Get(1).(*entity.HistoryEntry)
		}).
		Return(nil)

	journal := NewJournal(discardLogger(), repo, 4)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go journal.Run(ctx)

	// When: a move and a resync are recorded
	board := entity.Board{FEN: "fen-after-e4"}
	journal.RecordMove(entity.Move{From: "e2", To: "e4"}, board)
	journal.RecordResync(entity.NewBoard())

	// Then: they are written in order with increasing sequence numbers
	first := receiveEntry(t, written)
	second := receiveEntry(t, written)

	assert.Equal(t, int64(1), first.Seq)
	assert.Equal(t, entity.HistoryKindMove, first.Kind)
	require.NotNil(t, first.Move)
	assert.Equal(t, "e4", first.Move.To)
	assert.Equal(t, "fen-after-e4", first.FEN)
	assert.False(t, first.At.IsZero())

	assert.Equal(t, int64(2), second.Seq)
	assert.Equal(t, entity.HistoryKindResync, second.Kind)
	assert.Nil(t, second.Move)
	assert.Equal(t, entity.StartingFEN, second.FEN)
}

func TestJournal_FullQueueDrops(t *testing.T) {
	// Given: a journal with room for one entry and no worker running
	repo := new(mockHistoryRepo)
	journal := NewJournal(discardLogger(), repo, 1)

	// When: two entries are recorded
	done := make(chan struct{})
	go func() {
		journal.RecordResync(entity.NewBoard())
		journal.RecordResync(entity.NewBoard())
		close(done)
	}()

	// Then: recording does not block and only the first entry is queued
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("record blocked on a full queue")
	}

	assert.Len(t, journal.entries, 1)
	repo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestJournal_FlushOnStop(t *testing.T) {
	// Given: queued entries and a cancelled context
	repo := new(mockHistoryRepo)
	repo.On("Append", mock.Anything, mock.Anything).Return(nil)

	journal := NewJournal(discardLogger(), repo, 4)
	journal.RecordResync(entity.NewBoard())
	journal.RecordResync(entity.NewBoard())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// When: Run observes cancellation
	journal.Run(ctx)

	// Then: everything queued is still written
	assert.Empty(t, journal.entries)
	repo.AssertNumberOfCalls(t, "Append", 2)
}

func receiveEntry(t *testing.T, ch <-chan *entity.HistoryEntry) *entity.HistoryEntry {
	t.Helper()

	select {
	case entry := <-ch:
		return entry
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for history entry")
		return nil
	}
}
