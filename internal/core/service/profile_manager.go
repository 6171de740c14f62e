package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/simmerkit/recipe-vault/internal/core/domain"
	"github.com/simmerkit/recipe-vault/internal/core/ports"
)

const (
	sessionKeyPrefix    = "auth:user:"
	onboardingKeyPrefix = "onboarding:state:"
)

// Profile bundles the per-device state machines: the session store, the
// onboarding tracker, and the flow controller built on top of it.
type Profile struct {
	Session *SessionStore
	Tracker *Tracker
	Flow    *FlowController
}

// Route runs the root redirect gate against this profile's hydration flags.
func (p *Profile) Route() domain.Route {
	return domain.DecideRoute(
		p.Session.Loaded(),
		p.Session.Session() != nil,
		p.Tracker.Loaded(),
		p.Tracker.HasCompleted(),
	)
}

// ProfileManager hands out hydrated profiles keyed by device profile id.
// Hydration runs exactly once per profile per process; afterwards the
// profile's in-memory state is authoritative and there is a single logical
// writer per profile (the handlers funnel through the same instance).
type ProfileManager struct {
	kv   ports.KVStore
	auth ports.Authenticator
	log  zerolog.Logger

	mu       sync.Mutex
	profiles map[string]*profileEntry
}

type profileEntry struct {
	once    sync.Once
	profile *Profile
	err     error
}

// NewProfileManager creates a ProfileManager backed by the given KV store
// and authenticator.
func NewProfileManager(kv ports.KVStore, auth ports.Authenticator, log zerolog.Logger) *ProfileManager {
	return &ProfileManager{
		kv:       kv,
		auth:     auth,
		log:      log,
		profiles: make(map[string]*profileEntry),
	}
}

// Get returns the hydrated profile for id, creating and hydrating it on
// first use. resetRequested is forwarded to the flow controller's one-shot
// reset latch and has no effect on later calls for the same profile.
func (m *ProfileManager) Get(ctx context.Context, id string, resetRequested bool) (*Profile, error) {
	if id == "" {
		return nil, fmt.Errorf("profile id required")
	}

	m.mu.Lock()
	entry, ok := m.profiles[id]
	if !ok {
		entry = &profileEntry{}
		m.profiles[id] = entry
	}
	m.mu.Unlock()

	entry.once.Do(func() {
		log := m.log.With().Str("profile", id).Logger()
		tracker := NewTracker(m.kv, onboardingKeyPrefix+id, log)
		p := &Profile{
			Session: NewSessionStore(m.kv, m.auth, sessionKeyPrefix+id, log),
			Tracker: tracker,
			Flow:    NewFlowController(tracker, log),
		}
		p.Session.Restore(ctx)
		entry.err = p.Flow.Hydrate(ctx, resetRequested)
		entry.profile = p
	})

	if entry.err != nil {
		return nil, entry.err
	}
	if resetRequested {
		// The controller's latch makes this a no-op after the first reset
		// of this in-memory profile.
		if err := entry.profile.Flow.Hydrate(ctx, true); err != nil {
			return nil, err
		}
	}
	return entry.profile, nil
}
