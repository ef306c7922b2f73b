// Package memory holds process-local repositories with the same contracts as
// the PostgreSQL ones. Service tests run against it.
package memory

import (
	"context"
	"fmt"
	"maps"
	"sync"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/correction"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/settings"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/staff"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/task"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/database"
)

type refreshToken struct {
	staffID   string
	expiresAt time.Time
	revoked   bool
}

type state struct {
	staff       map[string]staff.Staff
	attendance  map[string]attendance.Record
	corrections map[string]correction.Correction
	leaves      map[string]leave.LeaveRequest
	tasks       map[string]task.Task
	settings    *settings.AdminSettings
	refresh     map[string]refreshToken
	otps        map[string]auth.PasswordOTP
}

func (s state) clone() state {
	c := state{
		staff:       maps.Clone(s.staff),
		attendance:  maps.Clone(s.attendance),
		corrections: maps.Clone(s.corrections),
		leaves:      maps.Clone(s.leaves),
		tasks:       maps.Clone(s.tasks),
		refresh:     maps.Clone(s.refresh),
		otps:        maps.Clone(s.otps),
	}
	if s.settings != nil {
		cp := *s.settings
		c.settings = &cp
	}
	return c
}

// Store is the shared backing state of every repository in this package.
type Store struct {
	mu    sync.Mutex
	txMu  sync.Mutex
	seq   int
	base  time.Time
	state state
}

func NewStore() *Store {
	return &Store{
		base: time.Now().UTC(),
		state: state{
			staff:       map[string]staff.Staff{},
			attendance:  map[string]attendance.Record{},
			corrections: map[string]correction.Correction{},
			leaves:      map[string]leave.LeaveRequest{},
			tasks:       map[string]task.Task{},
			refresh:     map[string]refreshToken{},
			otps:        map[string]auth.PasswordOTP{},
		},
	}
}

// nextID must be called with mu held. Creation stamps strictly increase so
// "newest first" orderings are deterministic.
func (s *Store) nextID(prefix string) (string, time.Time) {
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq), s.base.Add(time.Duration(s.seq) * time.Millisecond)
}

type txKey struct{}

type transactor struct {
	store *Store
}

// Transactor snapshots the store and restores it when fn fails.
func (s *Store) Transactor() database.Transactor {
	return &transactor{store: s}
}

func (t *transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	t.store.txMu.Lock()
	defer t.store.txMu.Unlock()

	t.store.mu.Lock()
	snapshot := t.store.state.clone()
	t.store.mu.Unlock()

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		t.store.mu.Lock()
		t.store.state = snapshot
		t.store.mu.Unlock()
		return err
	}
	return nil
}

func (s *Store) staffName(id string) (*string, *string) {
	m, ok := s.state.staff[id]
	if !ok {
		return nil, nil
	}
	name, code := m.Name, m.EmployeeCode
	return &name, &code
}
