package battle

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Dre1stein/xiuxian-mud/internal/game/skill"
)

// SnapshotStore persists session checkpoints. It is optional; without one
// the registry is purely in-memory.
type SnapshotStore interface {
	Save(ctx context.Context, snap Snapshot) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]Snapshot, error)
}

// RegistryConfig bounds session lifetime.
type RegistryConfig struct {
	// SessionTTL expires ACTIVE sessions idle for longer.
	SessionTTL time.Duration
	// TerminalGrace keeps finished sessions readable for this long.
	TerminalGrace time.Duration
	// SweepInterval is the Run loop period.
	SweepInterval time.Duration
}

// DefaultRegistryConfig returns 15m TTL, 1m grace and a 30s sweep.
func DefaultRegistryConfig() RegistryConfig {
	return RegistryConfig{
		SessionTTL:    15 * time.Minute,
		TerminalGrace: time.Minute,
		SweepInterval: 30 * time.Second,
	}
}

// Summary is a lightweight view of a session for listings.
type Summary struct {
	ID         string
	Kind       Kind
	Status     Status
	Round      int
	Self       []string
	Opposing   []string
	CreatedAt  time.Time
	LastActive time.Time
}

// Summary returns the session listing view.
func (s *Session) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	sum := Summary{
		ID:         s.id,
		Kind:       s.kind,
		Status:     s.status,
		Round:      s.round,
		CreatedAt:  s.createdAt,
		LastActive: s.lastActive,
	}
	for _, f := range s.self {
		sum.Self = append(sum.Self, f.Name())
	}
	for _, f := range s.opposing {
		sum.Opposing = append(sum.Opposing, f.Name())
	}
	return sum
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithSnapshotStore enables checkpointing of ACTIVE sessions.
func WithSnapshotStore(store SnapshotStore) RegistryOption {
	return func(r *Registry) { r.store = store }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) RegistryOption {
	return func(r *Registry) { r.now = now }
}

// WithSeeds replaces the random seed source of new sessions.
func WithSeeds(next func() Seed) RegistryOption {
	return func(r *Registry) { r.seeds = next }
}

// Registry is the keyed in-memory store of live sessions.
// Thread-safe for concurrent access.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	rules Rules
	cfg   RegistryConfig
	store SnapshotStore
	now   func() time.Time
	seeds func() Seed
}

// NewRegistry creates an empty registry.
func NewRegistry(rules Rules, cfg RegistryConfig, opts ...RegistryOption) *Registry {
	def := DefaultRegistryConfig()
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = def.SessionTTL
	}
	if cfg.TerminalGrace <= 0 {
		cfg.TerminalGrace = def.TerminalGrace
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = def.SweepInterval
	}
	r := &Registry{
		sessions: make(map[string]*Session, 16),
		rules:    rules.withDefaults(),
		cfg:      cfg,
		now:      time.Now,
		seeds:    func() Seed { return Seed{Hi: rand.Uint64(), Lo: rand.Uint64()} },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Rules returns the rules new sessions are created with.
func (r *Registry) Rules() Rules { return r.rules }

// NewID returns a fresh session id for kind.
func NewID(kind Kind) string {
	return kind.IDPrefix() + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// StartPvE creates and registers a monster encounter.
func (r *Registry) StartPvE(player *Fighter, monsters []*Fighter) (*Session, error) {
	return r.start(KindPvE, []*Fighter{player}, monsters)
}

// StartPvP creates and registers a duel.
func (r *Registry) StartPvP(challenger, defender *Fighter) (*Session, error) {
	return r.start(KindPvP, []*Fighter{challenger}, []*Fighter{defender})
}

func (r *Registry) start(kind Kind, self, opposing []*Fighter) (*Session, error) {
	s, err := NewSession(NewID(kind), kind, self, opposing, r.rules, r.seeds())
	if err != nil {
		return nil, err
	}
	s.now = r.now
	s.createdAt = r.now()
	s.lastActive = s.createdAt
	r.add(s)

	slog.Info("battle session created",
		"session", s.id,
		"kind", kind,
		"self", names(self),
		"opposing", names(opposing))
	return s, nil
}

func (r *Registry) add(s *Session) {
	r.mu.Lock()
	r.sessions[s.id] = s
	r.mu.Unlock()
}

// Get returns a session by id.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return s, nil
}

// Remove drops a session and its checkpoint.
func (r *Registry) Remove(ctx context.Context, id string) error {
	r.mu.Lock()
	_, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	slog.Debug("battle session removed", "session", id)
	if r.store != nil {
		if err := r.store.Delete(ctx, id); err != nil {
			return fmt.Errorf("deleting snapshot %s: %w", id, err)
		}
	}
	return nil
}

// List returns summaries of all sessions ordered by id.
func (r *Registry) List() []Summary {
	out := make([]Summary, 0, r.Count())
	for _, s := range r.all() {
		out = append(out, s.Summary())
	}
	slices.SortFunc(out, func(a, b Summary) int { return cmp.Compare(a.ID, b.ID) })
	return out
}

// Count returns the number of registered sessions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

func (r *Registry) all() []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s)
	}
	return out
}

// Act forwards an action to the session with the given id.
func (r *Registry) Act(ctx context.Context, id string, req ActionRequest) (Turn, error) {
	if err := ctx.Err(); err != nil {
		return Turn{}, err
	}
	s, err := r.Get(id)
	if err != nil {
		return Turn{}, err
	}
	return s.Act(req)
}

// AutoResolve resolves the session with the configured round cap.
func (r *Registry) AutoResolve(ctx context.Context, id string) (Turn, error) {
	if err := ctx.Err(); err != nil {
		return Turn{}, err
	}
	s, err := r.Get(id)
	if err != nil {
		return Turn{}, err
	}
	return s.AutoResolve(r.rules.MaxAutoRounds)
}

// Resume loads checkpointed ACTIVE sessions from the store.
// Returns the number of sessions restored.
func (r *Registry) Resume(ctx context.Context, catalog *skill.Catalog) (int, error) {
	if r.store == nil {
		return 0, nil
	}
	snaps, err := r.store.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing snapshots: %w", err)
	}

	restored := 0
	for _, snap := range snaps {
		if snap.Status.Terminal() {
			continue
		}
		s, err := Restore(snap, catalog, r.rules)
		if err != nil {
			slog.Warn("skipping unreadable snapshot", "session", snap.ID, "error", err)
			continue
		}
		s.now = r.now
		s.lastActive = r.now()
		r.add(s)
		restored++
	}
	slog.Info("battle sessions resumed", "count", restored)
	return restored, nil
}

// SweepResult counts what one sweep did.
type SweepResult struct {
	Expired      int
	Finished     int
	Checkpointed int
	Retired      int
}

// Sweep expires idle ACTIVE sessions, drops terminal sessions after the
// grace period and checkpoints changed ACTIVE sessions. A session that
// ended since the last sweep has its checkpoint deleted at once so Resume
// can never bring it back.
func (r *Registry) Sweep(ctx context.Context) (SweepResult, error) {
	var (
		res  SweepResult
		errs []error
	)
	now := r.now()
	for _, s := range r.all() {
		s.mu.Lock()
		idle := now.Sub(s.lastActive)
		status := s.status
		var (
			snap    Snapshot
			snapErr error
		)
		save := r.store != nil && status == StatusActive && s.dirty && idle <= r.cfg.SessionTTL
		if save {
			snap, snapErr = s.snapshot()
			s.dirty = false
		}
		retire := r.store != nil && status.Terminal() && s.dirty && idle <= r.cfg.TerminalGrace
		if retire {
			s.dirty = false
		}
		s.mu.Unlock()

		switch {
		case status == StatusActive && idle > r.cfg.SessionTTL:
			slog.Info("battle session expired", "session", s.id, "idle", idle)
			res.Expired++
			errs = append(errs, r.drop(ctx, s.id))
		case status.Terminal() && idle > r.cfg.TerminalGrace:
			res.Finished++
			errs = append(errs, r.drop(ctx, s.id))
		case retire:
			if err := r.store.Delete(ctx, s.id); err != nil {
				s.mu.Lock()
				s.dirty = true
				s.mu.Unlock()
				errs = append(errs, fmt.Errorf("retiring checkpoint %s: %w", s.id, err))
				continue
			}
			res.Retired++
		case save:
			if snapErr == nil {
				snapErr = r.store.Save(ctx, snap)
			}
			if snapErr != nil {
				s.mu.Lock()
				s.dirty = true
				s.mu.Unlock()
				errs = append(errs, fmt.Errorf("checkpointing %s: %w", s.id, snapErr))
				continue
			}
			res.Checkpointed++
		}
	}
	return res, errors.Join(errs...)
}

func (r *Registry) drop(ctx context.Context, id string) error {
	err := r.Remove(ctx, id)
	if errors.Is(err, ErrSessionNotFound) {
		return nil
	}
	return err
}

// Run sweeps on every interval until ctx is canceled.
func (r *Registry) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.cfg.SweepInterval)
	defer ticker.Stop()

	slog.Info("battle registry sweeper started", "interval", r.cfg.SweepInterval)

	for {
		select {
		case <-ctx.Done():
			slog.Info("battle registry sweeper stopping", "sessions", r.Count())
			return ctx.Err()

		case <-ticker.C:
			res, err := r.Sweep(ctx)
			if err != nil {
				slog.Error("battle registry sweep", "error", err)
			}
			if res != (SweepResult{}) {
				slog.Debug("battle registry sweep completed",
					"expired", res.Expired,
					"finished", res.Finished,
					"checkpointed", res.Checkpointed,
					"retired", res.Retired)
			}
		}
	}
}
