// Package memory is the in-process persistence backend, selected by memory:// URIs.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jsupa/turbo-template/domain/user"
	"github.com/jsupa/turbo-template/infrastructure/persistence"
)

// Driver is a persistence.Driver without I/O. Closing it drops all data.
type Driver struct {
	mu    sync.RWMutex
	store *store
}

func NewDriver() *Driver {
	return &Driver{}
}

func (d *Driver) Name() string { return "memory" }

func (d *Driver) Open(ctx context.Context, _ string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.store = newStore()
	return nil
}

func (d *Driver) Close(context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.store == nil {
		return persistence.ErrNotConnected
	}
	d.store = nil
	return nil
}

func (d *Driver) current() (*store, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.store == nil {
		return nil, persistence.ErrNotConnected
	}
	return d.store, nil
}

type store struct {
	mu      sync.RWMutex
	users   map[string]user.Snapshot
	byEmail map[string]string
}

func newStore() *store {
	return &store{
		users:   make(map[string]user.Snapshot),
		byEmail: make(map[string]string),
	}
}

// UserRepository keeps users in the driver's store. The email index plays the
// role of the storage engine's unique constraint.
type UserRepository struct {
	driver *Driver
	now    func() time.Time
}

func NewUserRepository(driver *Driver) *UserRepository {
	return &UserRepository{driver: driver, now: time.Now}
}

func (r *UserRepository) EnsureSchema(context.Context) error {
	_, err := r.driver.current()
	return err
}

func (r *UserRepository) Save(ctx context.Context, u *user.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s, err := r.driver.current()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	email := u.Email().Value()
	if owner, ok := s.byEmail[email]; ok && owner != u.ID() {
		return user.NewEmailAlreadyExistsError(email)
	}
	if prev, ok := s.users[u.ID()]; ok && prev.Email != email {
		delete(s.byEmail, prev.Email)
	}

	u.Touch(r.now().UTC())
	s.users[u.ID()] = u.Snapshot()
	s.byEmail[email] = u.ID()
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*user.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s, err := r.driver.current()
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.users[id]
	if !ok {
		return nil, user.NewUserNotFoundError(id)
	}
	return user.Rebuild(snap), nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s, err := r.driver.current()
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	email = user.NormalizeEmail(email)
	id, ok := s.byEmail[email]
	if !ok {
		return nil, user.NewUserNotFoundError(email)
	}
	return user.Rebuild(s.users[id]), nil
}

func (r *UserRepository) List(ctx context.Context, limit int) ([]*user.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s, err := r.driver.current()
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	snaps := make([]user.Snapshot, 0, len(s.users))
	for _, snap := range s.users {
		snaps = append(snaps, snap)
	}
	s.mu.RUnlock()

	sort.Slice(snaps, func(i, j int) bool {
		if snaps[i].CreatedAt.Equal(snaps[j].CreatedAt) {
			return snaps[i].ID < snaps[j].ID
		}
		return snaps[i].CreatedAt.After(snaps[j].CreatedAt)
	})

	limit = user.ClampLimit(limit)
	if len(snaps) > limit {
		snaps = snaps[:limit]
	}

	users := make([]*user.User, 0, len(snaps))
	for _, snap := range snaps {
		users = append(users, user.Rebuild(snap))
	}
	return users, nil
}

var (
	_ persistence.Driver = (*Driver)(nil)
	_ user.Repository    = (*UserRepository)(nil)
)
