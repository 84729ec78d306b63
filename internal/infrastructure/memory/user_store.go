package memory

import (
	"context"
	"sync"
	"time"

	"github.com/openadmit/auth-service/internal/domain"
)

// UserStore is an in-process implementation of the auth.UserStore port.
// Used by tests and as a dev fallback; semantics mirror the postgres and
// mongodb stores, including the uniqueness constraint on create.
type UserStore struct {
	mu         sync.RWMutex
	byID       map[string]domain.User
	byUsername map[string]string // username -> userID
	byEmail    map[string]string // email -> userID
}

func NewUserStore() *UserStore {
	return &UserStore{
		byID:       make(map[string]domain.User),
		byUsername: make(map[string]string),
		byEmail:    make(map[string]string),
	}
}

func (r *UserStore) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	username = domain.NormalizeKey(username)
	if username == "" {
		return domain.User{}, domain.ErrMissingField("username")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byUsername[username]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return r.byID[id], nil
}

func (r *UserStore) GetByUsernameOrEmail(ctx context.Context, username, email string) (domain.User, error) {
	username = domain.NormalizeKey(username)
	email = domain.NormalizeKey(email)
	if username == "" {
		return domain.User{}, domain.ErrMissingField("username")
	}
	if email == "" {
		return domain.User{}, domain.ErrMissingField("email")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if id, ok := r.byUsername[username]; ok {
		return r.byID[id], nil
	}
	if id, ok := r.byEmail[email]; ok {
		return r.byID[id], nil
	}
	return domain.User{}, domain.ErrUserNotFound()
}

func (r *UserStore) GetByUsernameAndEmail(ctx context.Context, username, email string) (domain.User, error) {
	username = domain.NormalizeKey(username)
	email = domain.NormalizeKey(email)
	if username == "" {
		return domain.User{}, domain.ErrMissingField("username")
	}
	if email == "" {
		return domain.User{}, domain.ErrMissingField("email")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byUsername[username]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	u := r.byID[id]
	if u.Email != email {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return u, nil
}

func (r *UserStore) GetByID(ctx context.Context, id string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return u, nil
}

func (r *UserStore) Create(ctx context.Context, u domain.User) (domain.User, error) {
	u.Username = domain.NormalizeKey(u.Username)
	u.Email = domain.NormalizeKey(u.Email)
	if u.ID == "" {
		return domain.User{}, domain.ErrMissingField("id")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byUsername[u.Username]; exists {
		return domain.User{}, domain.ErrAccountConflict()
	}
	if _, exists := r.byEmail[u.Email]; exists {
		return domain.User{}, domain.ErrAccountConflict()
	}

	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now

	r.byID[u.ID] = u
	r.byUsername[u.Username] = u.ID
	r.byEmail[u.Email] = u.ID
	return u, nil
}

func (r *UserStore) UpdatePasswordHash(ctx context.Context, userID string, newHash string) error {
	if newHash == "" {
		return domain.ErrMissingField("passwordHash")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[userID]
	if !ok {
		return domain.ErrUserNotFound()
	}
	u.PasswordHash = newHash
	u.UpdatedAt = time.Now()
	r.byID[userID] = u
	return nil
}

// DeleteAll wipes every user. Maintenance tooling only.
func (r *UserStore) DeleteAll(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := int64(len(r.byID))
	r.byID = make(map[string]domain.User)
	r.byUsername = make(map[string]string)
	r.byEmail = make(map[string]string)
	return n, nil
}
