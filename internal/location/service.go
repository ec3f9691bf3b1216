package location

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"casedesk/internal/fallback"
	"casedesk/internal/metrics"
	"casedesk/internal/types"

	"github.com/google/uuid"
)

const DefaultSessionTTL = 30 * time.Minute

type session struct {
	controller *Controller
	lastSeen   time.Time
}

// Service owns the open location sessions and answers stateless list
// lookups for the HTTP API and the CLI.
type Service struct {
	resolver  *Resolver
	generator CoordinateGenerator
	cfg       Config
	logger    *slog.Logger
	now       func() time.Time

	mu       sync.RWMutex
	sessions map[string]*session
}

// NewService creates a service. provider may be nil to run entirely from
// the bundled dataset.
func NewService(provider Provider, dataset *fallback.Dataset, generator CoordinateGenerator, cfg Config, logger *slog.Logger) *Service {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = DefaultSessionTTL
	}
	return &Service{
		resolver:  NewResolver(provider, dataset, cfg.RequestTimeout, logger),
		generator: generator,
		cfg:       cfg,
		logger:    logger.With("component", "location-service"),
		now:       time.Now,
		sessions:  make(map[string]*session),
	}
}

// Warm loads the country list so display names can be mapped to remote
// codes. Failures leave the bundled index in place.
func (s *Service) Warm(ctx context.Context) {
	res := s.resolver.Countries(ctx)
	s.logger.Info("country index loaded", "countries", len(res.Items), "offline", res.Offline)
}

func (s *Service) ListCountries(ctx context.Context) ListResult[types.Country] {
	return s.resolver.Countries(ctx)
}

// ListStates lists the states of a country given by code or display name.
func (s *Service) ListStates(ctx context.Context, country string) ListResult[types.State] {
	return s.resolver.States(ctx, s.scope(country, ""))
}

// ListCities lists the cities of a country, optionally narrowed to a state.
func (s *Service) ListCities(ctx context.Context, country, state string) ListResult[types.City] {
	return s.resolver.Cities(ctx, s.scope(country, state))
}

func (s *Service) scope(country, state string) Scope {
	sc := Scope{
		CountryCode: s.resolver.CountryCode(country),
		CountryName: country,
		StateName:   state,
	}
	if state == "" {
		return sc
	}

	if sc.CountryCode != "" {
		if code, ok := s.resolver.dataset.StateCode(sc.CountryCode, state); ok {
			sc.StateCode = code
			return sc
		}
	}
	if code, ok := s.resolver.dataset.StateCode(country, state); ok {
		sc.StateCode = code
		return sc
	}
	// Assume a caller passing an unknown value passes the provider's code.
	sc.StateCode = state
	return sc
}

// Create opens a session. A non-nil initial location puts the session in
// edit mode.
func (s *Service) Create(initial *types.FormLocation) (string, *Controller, error) {
	c := NewController(s.resolver, s.generator, s.cfg, s.logger)
	if initial != nil {
		if err := c.Hydrate(*initial); err != nil {
			c.Close()
			return "", nil, err
		}
	}

	id := uuid.NewString()
	s.mu.Lock()
	s.sessions[id] = &session{controller: c, lastSeen: s.now()}
	n := len(s.sessions)
	s.mu.Unlock()

	metrics.ActiveSessions.Set(float64(n))
	s.logger.Debug("session created", "session_id", id, "edit", initial != nil)
	return id, c, nil
}

// Get returns the controller of an open session and marks it as used.
func (s *Service) Get(id string) (*Controller, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	sess.lastSeen = s.now()
	return sess.controller, nil
}

// Delete closes and forgets a session.
func (s *Service) Delete(id string) error {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	n := len(s.sessions)
	s.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	metrics.ActiveSessions.Set(float64(n))
	sess.controller.Close()
	s.logger.Debug("session closed", "session_id", id)
	return nil
}

// Len reports the number of open sessions.
func (s *Service) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep closes sessions idle for longer than the session TTL and returns
// how many were closed.
func (s *Service) Sweep() int {
	cutoff := s.now().Add(-s.cfg.SessionTTL)

	s.mu.Lock()
	var expired []*session
	for id, sess := range s.sessions {
		if sess.lastSeen.Before(cutoff) {
			expired = append(expired, sess)
			delete(s.sessions, id)
		}
	}
	n := len(s.sessions)
	s.mu.Unlock()

	for _, sess := range expired {
		sess.controller.Close()
	}
	if len(expired) > 0 {
		metrics.ActiveSessions.Set(float64(n))
		s.logger.Info("expired idle sessions", "count", len(expired), "remaining", n)
	}
	return len(expired)
}

// Run sweeps expired sessions until ctx is done.
func (s *Service) Run(ctx context.Context) {
	interval := s.cfg.SessionTTL / 4
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

// Close closes every open session.
func (s *Service) Close() {
	s.mu.Lock()
	sessions := s.sessions
	s.sessions = make(map[string]*session)
	s.mu.Unlock()

	for _, sess := range sessions {
		sess.controller.Close()
	}
	metrics.ActiveSessions.Set(0)
}
