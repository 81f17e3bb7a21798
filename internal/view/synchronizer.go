// Package view keeps a per-viewer, in-memory image of the document list in
// step with the database, and filters it into the projection a client
// renders. A Synchronizer owns one feed subscription; change events trigger
// a hydrating re-read of the affected row, and results are merged into an
// ordered, newest-first collection. Filtering is a pure transform over a
// snapshot of that collection.
package view

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"mentorlink/internal/feed"
	"mentorlink/internal/logging"
	"mentorlink/internal/model"
	"mentorlink/internal/repository"
)

// snapshotLimit caps how many documents a view holds. The list is newest
// first, so an overflowing view simply omits the oldest entries.
const snapshotLimit = 500

// hydration is a re-read of one changed row flowing back into the loop. The
// generation pins it to the collection state it was issued against.
type hydration struct {
	op  feed.Op
	doc *model.Document
	gen uint64
}

// Synchronizer maintains the viewer's document collection. A single loop
// goroutine serializes every mutation; hydration fetches run concurrently
// and re-enter the loop as messages, so two fetches for the same document
// can resolve out of order. A per-identity updated_at high-water mark
// discards the stale one.
type Synchronizer struct {
	repo   repository.DocumentRepository
	viewer repository.Viewer
	sub    *feed.Subscription
	log    *logging.Logger

	mu   sync.RWMutex
	docs []model.Document

	// applied tracks the updated_at high-water mark per identity, including
	// deleted ones, so a late hydration cannot resurrect or roll back a row.
	applied map[string]time.Time

	// gen increments on every Initialize; hydrations issued against an older
	// collection are discarded instead of merged into the replacement.
	gen uint64

	hydrations chan hydration
	changed    chan struct{}
	stop       chan struct{}
	done       chan struct{}
	stopOnce   sync.Once
}

// NewSynchronizer creates a synchronizer over the given subscription. The
// subscription's scope and the viewer must describe the same identity; the
// synchronizer closes the subscription when it stops.
func NewSynchronizer(repo repository.DocumentRepository, viewer repository.Viewer, sub *feed.Subscription, log *logging.Logger) *Synchronizer {
	return &Synchronizer{
		repo:       repo,
		viewer:     viewer,
		sub:        sub,
		log:        log,
		applied:    make(map[string]time.Time),
		hydrations: make(chan hydration),
		changed:    make(chan struct{}, 1),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// Start loads the initial collection and launches the event loop. A
// successful Start must be paired with Stop. On error nothing is running and
// Stop must not be called.
func (s *Synchronizer) Start(ctx context.Context) error {
	docs, err := s.fetchAll(ctx)
	if err != nil {
		return err
	}
	s.Initialize(docs)

	go s.run(ctx)
	return nil
}

// Stop tears the synchronizer down and blocks until the loop has exited and
// the subscription is closed. After Stop returns, the collection no longer
// changes and no further change signals fire. Stop is idempotent.
func (s *Synchronizer) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
	<-s.done
}

// Initialize replaces the collection wholesale with the given seed, which is
// treated as authoritative: the staleness high-water marks are rebuilt from
// it. The seed is expected newest first.
func (s *Synchronizer) Initialize(docs []model.Document) {
	applied := make(map[string]time.Time, len(docs))
	for _, d := range docs {
		applied[d.ID] = d.UpdatedAt
	}

	s.mu.Lock()
	s.docs = append([]model.Document(nil), docs...)
	s.applied = applied
	s.gen++
	s.mu.Unlock()

	s.notify()
}

// Refresh re-reads the collection from the database and replaces the local
// state, recovering from any missed events.
func (s *Synchronizer) Refresh(ctx context.Context) error {
	docs, err := s.fetchAll(ctx)
	if err != nil {
		return err
	}
	s.Initialize(docs)
	return nil
}

// Snapshot returns a copy of the current collection, newest first.
func (s *Synchronizer) Snapshot() []model.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Document, len(s.docs))
	copy(out, s.docs)
	return out
}

// Changed signals after the collection has been modified. Signals coalesce:
// a burst of changes may wake the receiver once. Consumers re-read via
// Snapshot rather than counting signals.
func (s *Synchronizer) Changed() <-chan struct{} {
	return s.changed
}

// Done closes when the event loop has exited, whether through Stop or because
// the subscription was closed from the hub side. After Done the collection is
// frozen and Changed never fires again.
func (s *Synchronizer) Done() <-chan struct{} {
	return s.done
}

func (s *Synchronizer) fetchAll(ctx context.Context) ([]model.Document, error) {
	res, err := s.repo.List(ctx, s.viewer, repository.DocumentFilter{}, repository.PageQuery{Limit: snapshotLimit})
	if err != nil {
		return nil, err
	}
	return res.Items, nil
}

func (s *Synchronizer) run(ctx context.Context) {
	defer close(s.done)
	defer s.sub.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stop:
			return
		case ev, ok := <-s.sub.Events():
			if !ok {
				return
			}
			s.handleEvent(ctx, ev)
		case h := <-s.hydrations:
			s.applyHydration(h)
		}
	}
}

// handleEvent processes one feed event. Deletes apply immediately; inserts
// and updates launch a hydration fetch whose result re-enters the loop.
func (s *Synchronizer) handleEvent(ctx context.Context, ev feed.Event) {
	if ev.Op == feed.OpDelete {
		s.applyDelete(ev.ID, ev.UpdatedAt)
		return
	}

	s.mu.RLock()
	gen := s.gen
	s.mu.RUnlock()

	go func() {
		doc, err := s.repo.FindByID(ctx, ev.ID, s.viewer)
		if err != nil {
			// The row may be gone or out of scope by the time we read it;
			// the corresponding delete event handles removal.
			if errors.Is(err, sql.ErrNoRows) {
				s.log.Debug(ctx, "hydration found no visible row",
					zap.String("document_id", ev.ID))
				return
			}
			s.log.Warn(ctx, "dropping change event, hydration failed",
				zap.String("document_id", ev.ID),
				zap.Error(err))
			return
		}

		select {
		case s.hydrations <- hydration{op: ev.Op, doc: doc, gen: gen}:
		case <-s.done:
			// Tearing down; a stale result must not be applied anywhere.
		}
	}()
}

// applyHydration merges one hydrated row, discarding results older than the
// state already applied for that identity.
func (s *Synchronizer) applyHydration(h hydration) {
	s.mu.Lock()

	if h.gen != s.gen {
		s.mu.Unlock()
		return
	}
	if last, ok := s.applied[h.doc.ID]; ok && !h.doc.UpdatedAt.After(last) {
		s.mu.Unlock()
		return
	}

	idx := s.indexOf(h.doc.ID)
	switch {
	case idx >= 0:
		// Same identity, same position: replaces in place for updates and
		// suppresses duplicates for inserts.
		s.docs[idx] = *h.doc
	case h.op == feed.OpInsert:
		s.docs = append(s.docs, model.Document{})
		copy(s.docs[1:], s.docs)
		s.docs[0] = *h.doc
		if len(s.docs) > snapshotLimit {
			s.docs = s.docs[:snapshotLimit]
		}
	default:
		// An update for an identity we never held is dropped, not inserted.
		s.mu.Unlock()
		return
	}
	s.applied[h.doc.ID] = h.doc.UpdatedAt

	s.mu.Unlock()
	s.notify()
}

func (s *Synchronizer) applyDelete(id string, at time.Time) {
	s.mu.Lock()

	if last, ok := s.applied[id]; !ok || at.After(last) {
		s.applied[id] = at
	}

	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return
	}
	s.docs = append(s.docs[:idx], s.docs[idx+1:]...)

	s.mu.Unlock()
	s.notify()
}

// indexOf requires s.mu to be held.
func (s *Synchronizer) indexOf(id string) int {
	for i := range s.docs {
		if s.docs[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Synchronizer) notify() {
	select {
	case s.changed <- struct{}{}:
	default:
	}
}
