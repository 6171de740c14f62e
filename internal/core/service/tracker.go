package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/simmerkit/recipe-vault/internal/core/domain"
	"github.com/simmerkit/recipe-vault/internal/core/ports"
)

// Tracker owns the persisted onboarding progress cursor of one device
// profile.
//
// Two invariants are enforced by construction:
//   - every persisted record is a full-record replace derived from the
//     latest in-memory copy, never a partial patch against stale disk
//     state, so back-to-back mutations cannot lose fields;
//   - mutators are serialized under one mutex, so a second write always
//     sees the first one's effect.
type Tracker struct {
	kv  ports.KVStore
	key string
	log zerolog.Logger
	now func() time.Time

	mu     sync.Mutex
	loaded bool
	state  domain.OnboardingState
}

// NewTracker creates a Tracker persisting under the given storage key.
func NewTracker(kv ports.KVStore, key string, log zerolog.Logger) *Tracker {
	return &Tracker{kv: kv, key: key, log: log, now: time.Now}
}

// storedState mirrors the wire record with optional fields so a record
// missing step or completed is rejected as malformed instead of silently
// zero-filled.
type storedState struct {
	Path      *string `json:"path"`
	Step      *int    `json:"step"`
	Completed *bool   `json:"completed"`
	UpdatedAt int64   `json:"updatedAt"`
}

// Load hydrates the cursor from storage. Absence, storage errors, and
// malformed records all substitute the default state; a corrupt record is
// never partially merged. The loaded flag is set exactly once, after which
// State is authoritative. Calling Load again is a no-op.
func (t *Tracker) Load(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.loaded {
		return
	}
	defer func() { t.loaded = true }()

	t.state = domain.DefaultOnboardingState(t.now())

	raw, err := t.kv.Get(ctx, t.key)
	if err != nil {
		if !errors.Is(err, ports.ErrKeyNotFound) {
			t.log.Warn().Err(err).Str("key", t.key).Msg("onboarding load failed, using defaults")
		}
		return
	}

	parsed, ok := parseStoredState(raw)
	if !ok {
		t.log.Warn().Str("key", t.key).Msg("malformed onboarding record, using defaults")
		return
	}
	t.state = parsed
}

func parseStoredState(raw string) (domain.OnboardingState, bool) {
	var st storedState
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		return domain.OnboardingState{}, false
	}
	if st.Step == nil || st.Completed == nil || *st.Step < 0 {
		return domain.OnboardingState{}, false
	}

	path := domain.PathNone
	if st.Path != nil {
		switch p := domain.OnboardingPath(*st.Path); p {
		case domain.PathA, domain.PathB:
			path = p
		case domain.PathNone:
		default:
			return domain.OnboardingState{}, false
		}
	}

	return domain.OnboardingState{
		Path:      path,
		Step:      *st.Step,
		Completed: *st.Completed,
		UpdatedAt: st.UpdatedAt,
	}, true
}

// SetPath overwrites the path field and persists the full record.
func (t *Tracker) SetPath(ctx context.Context, path domain.OnboardingPath) error {
	return t.mutate(ctx, func(s *domain.OnboardingState) { s.Path = path })
}

// SetStep overwrites the step field and persists the full record.
func (t *Tracker) SetStep(ctx context.Context, step int) error {
	return t.mutate(ctx, func(s *domain.OnboardingState) { s.Step = step })
}

// MarkCompleted flags the flow as finished and persists the full record.
func (t *Tracker) MarkCompleted(ctx context.Context) error {
	return t.mutate(ctx, func(s *domain.OnboardingState) { s.Completed = true })
}

// Reset overwrites the persisted record with defaults plus a fresh
// timestamp. Used to restart the flow from scratch.
func (t *Tracker) Reset(ctx context.Context) error {
	return t.mutate(ctx, func(s *domain.OnboardingState) {
		*s = domain.DefaultOnboardingState(t.now())
	})
}

// mutate applies fn to a copy of the current state, persists the resulting
// full record, and only then installs it in memory. A failed persist
// surfaces to the caller and leaves memory untouched.
func (t *Tracker) mutate(ctx context.Context, fn func(*domain.OnboardingState)) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	next := t.state
	fn(&next)
	next.UpdatedAt = t.now().UnixMilli()

	raw, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("encode onboarding state: %w", err)
	}
	if err := t.kv.Set(ctx, t.key, string(raw)); err != nil {
		return fmt.Errorf("persist onboarding state: %w", err)
	}

	t.state = next
	return nil
}

// Loaded reports whether Load has completed.
func (t *Tracker) Loaded() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.loaded
}

// State returns the current cursor.
func (t *Tracker) State() domain.OnboardingState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// HasCompleted reports the completed flag verbatim.
func (t *Tracker) HasCompleted() bool {
	return t.State().Completed
}

// ShouldResume reports whether the user progressed at least one step
// without finishing.
func (t *Tracker) ShouldResume() bool {
	return t.State().ShouldResume()
}
