// Package draft coalesces autosave writes for in-progress ledger batches.
// The browser sends a snapshot on every edit; persisting each one would
// hammer the database, so writes are debounced per draft with an immediate
// flush path for dialog close and commit.
package draft

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/my-dora-hotel/ledger-server/internal/models"
)

// DebounceDelay is the quiet period before a snapshot is persisted.
const DebounceDelay = 1500 * time.Millisecond

const persistTimeout = 10 * time.Second

// Store persists draft rows. Implemented by the repository.
type Store interface {
	SaveDraft(ctx context.Context, draft *models.LedgerDraft) error
}

type draftState struct {
	mu      sync.Mutex // guards timer and pending
	saveMu  sync.Mutex // serializes persistence calls for this draft
	timer   *time.Timer
	pending *models.LedgerDraft
}

// Coordinator schedules one cancellable persist task per draft id. Each
// snapshot resets the timer; at most one persist is in flight per draft,
// and a snapshot arriving mid-persist is queued behind it by the next
// timer fire rather than cancelled.
type Coordinator struct {
	store Store
	log   *slog.Logger
	delay time.Duration

	mu     sync.Mutex
	drafts map[string]*draftState
}

// NewCoordinator builds a coordinator. delay is exposed so tests can run
// with short timers; production callers pass DebounceDelay.
func NewCoordinator(store Store, log *slog.Logger, delay time.Duration) *Coordinator {
	return &Coordinator{
		store:  store,
		log:    log,
		delay:  delay,
		drafts: make(map[string]*draftState),
	}
}

func (c *Coordinator) state(id string) *draftState {
	c.mu.Lock()
	defer c.mu.Unlock()
	st, ok := c.drafts[id]
	if !ok {
		st = &draftState{}
		c.drafts[id] = st
	}
	return st
}

// Autosave records the latest snapshot for a draft and (re)schedules its
// persist. The draft id must already be assigned by the caller.
func (c *Coordinator) Autosave(id string, date *models.Date, entries models.DraftEntryList) {
	st := c.state(id)
	st.mu.Lock()
	defer st.mu.Unlock()
	st.pending = &models.LedgerDraft{ID: id, Date: date, Entries: entries}
	if st.timer != nil {
		st.timer.Stop()
	}
	st.timer = time.AfterFunc(c.delay, func() { c.persist(id, st) })
}

func (c *Coordinator) persist(id string, st *draftState) {
	st.saveMu.Lock()
	defer st.saveMu.Unlock()

	st.mu.Lock()
	pending := st.pending
	st.pending = nil
	st.mu.Unlock()
	if pending == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	if err := c.store.SaveDraft(ctx, pending); err != nil {
		// Autosave is best-effort; the failure must at least be visible
		// in the logs.
		c.log.Error("draft autosave failed", "draftId", id, "error", err)
	}
}

// Flush cancels any scheduled persist and writes the latest snapshot
// synchronously. No-op when nothing is pending.
func (c *Coordinator) Flush(ctx context.Context, id string) error {
	c.mu.Lock()
	st, ok := c.drafts[id]
	c.mu.Unlock()
	if !ok {
		return nil
	}

	st.mu.Lock()
	if st.timer != nil {
		st.timer.Stop()
		st.timer = nil
	}
	pending := st.pending
	st.pending = nil
	st.mu.Unlock()
	if pending == nil {
		return nil
	}

	st.saveMu.Lock()
	defer st.saveMu.Unlock()
	return c.store.SaveDraft(ctx, pending)
}

// Discard cancels any scheduled persist and forgets the draft's local
// state. The remote row, if any, is the caller's to delete.
func (c *Coordinator) Discard(id string) {
	c.mu.Lock()
	st, ok := c.drafts[id]
	if ok {
		delete(c.drafts, id)
	}
	c.mu.Unlock()
	if !ok {
		return
	}

	st.mu.Lock()
	if st.timer != nil {
		st.timer.Stop()
		st.timer = nil
	}
	st.pending = nil
	st.mu.Unlock()
}
