// Package syncer keeps the remote store eventually consistent with local
// board state: debounced coalescing for high-frequency edits, immediate
// writes for discrete actions, a hard timeout per write, and
// replace-in-flight so a newer state always supersedes an older request.
package syncer

import (
	"context"
	"sync"
	"time"

	"kanban-cli/internal/model"
)

const (
	// DefaultDebounce coalesces bursts (keystroke-level edits) into one write.
	DefaultDebounce = 300 * time.Millisecond
	// DefaultTimeout aborts a stalled write; local state is never rolled
	// back, the next successful write self-heals the store.
	DefaultTimeout = 10 * time.Second
)

// SaveFunc pushes one board to the remote store.
type SaveFunc func(ctx context.Context, board model.Board) error

type Options struct {
	Debounce time.Duration
	Timeout  time.Duration
	// OnError observes write failures. Failures are reported, never acted
	// on: rendering stays on local state and retry happens implicitly with
	// the next mutation's write.
	OnError func(error)
}

type Syncer struct {
	save     SaveFunc
	debounce time.Duration
	timeout  time.Duration
	onError  func(error)

	mu      sync.Mutex
	timer   *time.Timer
	pending *model.Board
	cancel  context.CancelFunc
	gen     uint64
	wg      sync.WaitGroup
}

func New(save SaveFunc, opts Options) *Syncer {
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Syncer{
		save:     save,
		debounce: debounce,
		timeout:  timeout,
		onError:  opts.OnError,
	}
}

// Debounce schedules board for persistence after the debounce window. Each
// call re-arms the single timer slot with the latest state, so only the state
// present when the timer finally fires is sent.
func (s *Syncer) Debounce(board model.Board) {
	s.mu.Lock()
	b := board
	s.pending = &b
	if s.timer == nil {
		s.timer = time.AfterFunc(s.debounce, s.onTimer)
		s.mu.Unlock()
		return
	}
	s.timer.Reset(s.debounce)
	s.mu.Unlock()
}

// Now writes board immediately, cancelling any pending debounced write so a
// stale intermediate state is never sent after a newer durable one.
func (s *Syncer) Now(board model.Board) {
	s.mu.Lock()
	s.dropPendingLocked()
	s.mu.Unlock()
	s.dispatch(board)
}

// Flush synchronously persists a still-pending debounced state, if any.
// Meant for shutdown, so an edit made just before quitting survives.
func (s *Syncer) Flush() error {
	s.mu.Lock()
	board := s.pending
	s.dropPendingLocked()
	if board != nil && s.cancel != nil {
		// The pending state is newer than whatever is in flight.
		s.cancel()
		s.cancel = nil
	}
	s.mu.Unlock()

	s.wg.Wait()
	if board == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	return s.save(ctx, *board)
}

func (s *Syncer) onTimer() {
	s.mu.Lock()
	board := s.pending
	s.pending = nil
	s.mu.Unlock()
	if board == nil {
		return
	}
	s.dispatch(*board)
}

// dispatch starts one write, aborting whichever write was previously in
// flight: the newer state supersedes it.
func (s *Syncer) dispatch(board model.Board) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.cancel = cancel
	s.gen++
	gen := s.gen
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		err := s.save(ctx, board)

		s.mu.Lock()
		if s.gen == gen {
			s.cancel = nil
		}
		s.mu.Unlock()
		cancel()

		// A superseded write's failure is expected noise; everything else
		// (including a timeout abort) is reported.
		if err != nil && ctx.Err() != context.Canceled && s.onError != nil {
			s.onError(err)
		}
	}()
}

func (s *Syncer) dropPendingLocked() {
	s.pending = nil
	if s.timer != nil {
		s.timer.Stop()
	}
}
