// Package store holds the cached projection of persons, units and
// enrollments together with the current session. A Store has a single
// writer at a time by contract: its lock keeps memory safe, but two
// concurrent updates of the same record resolve as last writer wins.
package store

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/enrollment-service/internal/domain"
	"github.com/spec-kit/enrollment-service/internal/events"
	"github.com/spec-kit/enrollment-service/internal/observability"
	"github.com/spec-kit/enrollment-service/internal/repository"
)

// Verifier checks credentials and builds the resulting session.
type Verifier interface {
	Authenticate(ctx context.Context, identifier, secret string, kind domain.SessionKind) (*domain.Session, bool)
}

// Deps are the collaborators of a Store. Remote and Verifier are required.
type Deps struct {
	Remote     *repository.Client
	Verifier   Verifier
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	Metrics    *observability.Metrics
}

// Option tunes a Store.
type Option func(*Store)

// WithRemoteTimeout bounds every remote call. Zero leaves calls unbounded.
func WithRemoteTimeout(d time.Duration) Option {
	return func(s *Store) { s.timeout = d }
}

// Store is the session and domain state store.
type Store struct {
	remote     *repository.Client
	verifier   Verifier
	dispatcher events.Dispatcher
	logger     *zap.Logger
	metrics    *observability.Metrics
	timeout    time.Duration

	mu          sync.RWMutex
	persons     []domain.Person
	units       []domain.Unit
	enrollments []domain.Enrollment
	session     *domain.Session
	loads       int
}

// New builds a Store with an empty projection and no session.
func New(deps Deps, opts ...Option) *Store {
	s := &Store{
		remote:      deps.Remote,
		verifier:    deps.Verifier,
		dispatcher:  deps.Dispatcher,
		logger:      deps.Logger,
		metrics:     deps.Metrics,
		persons:     []domain.Person{},
		units:       []domain.Unit{},
		enrollments: []domain.Enrollment{},
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.dispatcher == nil {
		s.dispatcher = events.NewInMemoryDispatcher()
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) remoteCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

// IsLoading reports whether a LoadAll batch is in flight.
func (s *Store) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loads > 0
}

// Persons returns a copy of the active persons.
func (s *Store) Persons() []domain.Person {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Person{}, s.persons...)
}

// Units returns a copy of the active units.
func (s *Store) Units() []domain.Unit {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Unit{}, s.units...)
}

// Enrollments returns a copy of the non-cancelled enrollments.
func (s *Store) Enrollments() []domain.Enrollment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Enrollment{}, s.enrollments...)
}

// Person looks up a person in the projection.
func (s *Store) Person(id string) (domain.Person, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := indexOf(s.persons, id, personID)
	if i < 0 {
		return domain.Person{}, false
	}
	return s.persons[i], true
}

// Unit looks up a unit in the projection.
func (s *Store) Unit(id string) (domain.Unit, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := indexOf(s.units, id, unitID)
	if i < 0 {
		return domain.Unit{}, false
	}
	return s.units[i], true
}

// Enrollment looks up an enrollment in the projection.
func (s *Store) Enrollment(id string) (domain.Enrollment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := indexOf(s.enrollments, id, enrollmentID)
	if i < 0 {
		return domain.Enrollment{}, false
	}
	return s.enrollments[i], true
}

// OnChange registers a callback for changes of table. Remote notifications
// arrive only when a change listener feeds the same dispatcher.
func (s *Store) OnChange(table string, handler events.EventHandler) {
	s.dispatcher.Subscribe(table, handler)
}

func (s *Store) publish(ctx context.Context, table string, op events.EventType, id string) {
	err := s.dispatcher.Publish(ctx, events.Event{
		Type:      op,
		Table:     table,
		RecordID:  id,
		Source:    events.SourceLocal,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		s.logger.Warn("change handler failed", zap.String("table", table), zap.Error(err))
	}
}

// withoutSecret strips the credential hash; the projection never holds it.
func withoutSecret(p domain.Person) domain.Person {
	p.SecretHash = ""
	return p
}

func personID(p domain.Person) string         { return p.ID }
func unitID(u domain.Unit) string             { return u.ID }
func enrollmentID(e domain.Enrollment) string { return e.ID }

func indexOf[T any](items []T, id string, key func(T) string) int {
	for i := range items {
		if key(items[i]) == id {
			return i
		}
	}
	return -1
}

// upsert replaces the item with the same id or appends it.
func upsert[T any](items []T, item T, key func(T) string) []T {
	if i := indexOf(items, key(item), key); i >= 0 {
		out := append([]T{}, items...)
		out[i] = item
		return out
	}
	return append(append([]T{}, items...), item)
}

func without[T any](items []T, id string, key func(T) string) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if key(item) != id {
			out = append(out, item)
		}
	}
	return out
}
