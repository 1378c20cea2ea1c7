package usecase

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/rocketscienceinc/chess-backend/internal/entity"
	"github.com/rocketscienceinc/chess-backend/internal/metrics"
)

const defaultJournalBuffer = 256

type historyRepo interface {
	Append(ctx context.Context, entry *entity.HistoryEntry) error
}

// Journal writes history entries to the repository from a single worker goroutine.
// Record* never block: when the queue is full the entry is dropped.
type Journal struct {
	logger *slog.Logger
	repo   historyRepo

	entries chan entity.HistoryEntry
	seq     atomic.Int64
	now     func() time.Time
}

func NewJournal(logger *slog.Logger, repo historyRepo, buffer int) *Journal {
	if buffer <= 0 {
		buffer = defaultJournalBuffer
	}

	return &Journal{
		logger:  logger.With("component", "journal"),
		repo:    repo,
		entries: make(chan entity.HistoryEntry, buffer),
		now:     time.Now,
	}
}

// Run - drains the queue until ctx is cancelled. Entries still queued at that point are flushed
// with a fresh context.
func (that *Journal) Run(ctx context.Context) {
	log := that.logger.With("method", "Run")

	for {
		select {
		case entry := <-that.entries:
			that.write(ctx, entry)
		case <-ctx.Done():
			that.flush()
			log.Info("journal stopped")

			return
		}
	}
}

func (that *Journal) RecordMove(move entity.Move, board entity.Board) {
	that.record(entity.HistoryEntry{
		Kind: entity.HistoryKindMove,
		Move: &move,
		FEN:  board.FEN,
	})
}

func (that *Journal) RecordResync(board entity.Board) {
	that.record(entity.HistoryEntry{
		Kind: entity.HistoryKindResync,
		FEN:  board.FEN,
	})
}

func (that *Journal) record(entry entity.HistoryEntry) {
	entry.Seq = that.seq.Add(1)
	entry.At = that.now().UTC()

	select {
	case that.entries <- entry:
	default:
		metrics.JournalDropped.Inc()
		that.logger.Warn("journal queue is full, entry dropped", "seq", entry.Seq, "kind", entry.Kind)
	}
}

func (that *Journal) flush() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for {
		select {
		case entry := <-that.entries:
			that.write(ctx, entry)
		default:
			return
		}
	}
}

func (that *Journal) write(ctx context.Context, entry entity.HistoryEntry) {
	if err := that.repo.Append(ctx, &entry); err != nil {
		that.logger.Error("failed to append history entry", "seq", entry.Seq, "error", err)
	}
}
