// Package store holds the in-process application state and the mutation
// vocabulary around it. Every dispatch runs the pure reducer, writes the
// result through to local storage before readers can observe it, and
// fires a detached best-effort update at the remote mirror.
package store

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/vonshlovens/fretlog/internal/model"
)

// Local is the synchronous persistence adapter the store writes through to
type Local interface {
	Load() model.AppState
	Save(state model.AppState) error
}

// Remote is the optional mirror. Calls are fire-and-forget: a later
// local mutation can have its remote write overtaken by an earlier
// one's, an accepted inconsistency window.
type Remote interface {
	UpsertGuitar(ctx context.Context, g model.Guitar) error
	UpsertLog(ctx context.Context, l model.MaintenanceLog) error
	DeleteGuitar(ctx context.Context, id string) error
	DeleteLog(ctx context.Context, id string) error
	FetchState(ctx context.Context) (model.AppState, error)
	PushState(ctx context.Context, state model.AppState) error
}

// Store is the single state container, constructed once at startup
type Store struct {
	mu          sync.RWMutex
	state       model.AppState
	loading     bool
	local       Local
	remote      Remote // nil when no mirror is configured
	loadOnce    sync.Once
	inflight    sync.WaitGroup
	subscribers []func(model.AppState)
}

// New creates a store. remote may be nil for local-only operation.
func New(local Local, remote Remote) *Store {
	return &Store{
		state: model.AppState{
			Guitars:         []model.Guitar{},
			MaintenanceLogs: []model.MaintenanceLog{},
		},
		loading: true,
		local:   local,
		remote:  remote,
	}
}

// State returns a snapshot of the current state
func (s *Store) State() model.AppState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// IsLoading reports whether the initial load has completed
func (s *Store) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Subscribe registers a callback invoked after every mutation with the
// new state. Callbacks run synchronously on the dispatching goroutine.
func (s *Store) Subscribe(fn func(model.AppState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// Dispatch applies an action. The local save happens before the new
// state becomes visible, so a crash right after a dispatch never loses
// the mutation. The mirror update is detached and never blocks.
func (s *Store) Dispatch(action Action) {
	s.mu.Lock()
	next := reduce(s.state, action)
	if err := s.local.Save(next); err != nil {
		slog.Warn("failed to persist state, continuing in memory", "error", err)
	}
	s.state = next
	subs := append([]func(model.AppState){}, s.subscribers...)
	s.mu.Unlock()

	s.mirror(action)

	for _, fn := range subs {
		fn(next)
	}
}

// mirror launches the best-effort remote update for an action. There is
// no join point and no retry; a failure surfaces as a single warning.
func (s *Store) mirror(action Action) {
	if s.remote == nil {
		return
	}

	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		ctx := context.Background()
		var err error

		switch a := action.(type) {
		case AddGuitar:
			err = s.remote.UpsertGuitar(ctx, a.Guitar)
		case UpdateGuitar:
			err = s.remote.UpsertGuitar(ctx, a.Guitar)
		case DeleteGuitar:
			err = s.remote.DeleteGuitar(ctx, a.ID)
		case AddLog:
			err = s.remote.UpsertLog(ctx, a.Log)
		case UpdateLog:
			err = s.remote.UpsertLog(ctx, a.Log)
		case DeleteLog:
			err = s.remote.DeleteLog(ctx, a.ID)
		case LoadState:
			err = s.remote.PushState(ctx, a.State)
		}

		if err != nil {
			slog.Warn("mirror update failed, local state is unaffected", "error", err)
		}
	}()
}

// Load runs the initial load chain exactly once: remote mirror if
// configured, then the local state file, then the built-in seed data.
// Whichever branch wins, the loading flag ends up false.
func (s *Store) Load(ctx context.Context) {
	s.loadOnce.Do(func() {
		state, seeded := s.resolveInitialState(ctx)

		s.mu.Lock()
		if err := s.local.Save(state); err != nil {
			slog.Warn("failed to persist initial state", "error", err)
		}
		s.state = state
		s.loading = false
		s.mu.Unlock()

		// A fresh seed is also pushed to the mirror so a second device
		// starts from the same data.
		if seeded && s.remote != nil {
			s.inflight.Add(1)
			go func() {
				defer s.inflight.Done()
				if err := s.remote.PushState(context.Background(), state); err != nil {
					slog.Warn("failed to mirror seed data", "error", err)
				}
			}()
		}
	})
}

func (s *Store) resolveInitialState(ctx context.Context) (state model.AppState, seeded bool) {
	if s.remote != nil {
		remoteState, err := s.remote.FetchState(ctx)
		if err != nil {
			slog.Warn("failed to fetch mirror state, falling back to local", "error", err)
		} else if !isEmpty(remoteState) {
			slog.Debug("loaded state from mirror",
				"guitars", len(remoteState.Guitars),
				"logs", len(remoteState.MaintenanceLogs))
			return remoteState, false
		}
	}

	localState := s.local.Load()
	if !isEmpty(localState) {
		slog.Debug("loaded state from local file",
			"guitars", len(localState.Guitars),
			"logs", len(localState.MaintenanceLogs))
		return localState, false
	}

	slog.Info("no existing data found, seeding sample collection")
	return SeedState(), true
}

func isEmpty(state model.AppState) bool {
	return len(state.Guitars) == 0 && len(state.MaintenanceLogs) == 0
}

// Close gives in-flight mirror tasks a grace period to finish before the
// process exits. Dispatch itself never waits on them; mutations that
// miss the window are simply lost to the mirror.
func (s *Store) Close(grace time.Duration) {
	done := make(chan struct{})
	go func() {
		s.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(grace):
		slog.Warn("mirror updates still in flight at shutdown, abandoning")
	}
}
