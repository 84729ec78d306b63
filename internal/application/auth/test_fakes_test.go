package auth

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/openadmit/auth-service/internal/domain"
)

/*
Fakes for ports
*/

type fakeUserStore struct {
	mu sync.Mutex

	byID       map[string]domain.User
	byUsername map[string]string // username -> userID

	// injected errors (if set, method returns error)
	getErr       error
	createErr    error
	updatePwdErr error

	// record calls
	updatedPwd []struct{ id, hash string }
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		byID:       map[string]domain.User{},
		byUsername: map[string]string{},
	}
}

func (f *fakeUserStore) add(u domain.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID[u.ID] = u
	f.byUsername[u.Username] = u.ID
}

func (f *fakeUserStore) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getErr != nil {
		return domain.User{}, f.getErr
	}
	id, ok := f.byUsername[username]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return f.byID[id], nil
}

func (f *fakeUserStore) GetByUsernameOrEmail(ctx context.Context, username, email string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getErr != nil {
		return domain.User{}, f.getErr
	}
	for _, u := range f.byID {
		if u.Username == username || u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound()
}

func (f *fakeUserStore) GetByUsernameAndEmail(ctx context.Context, username, email string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getErr != nil {
		return domain.User{}, f.getErr
	}
	for _, u := range f.byID {
		if u.Username == username && u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound()
}

func (f *fakeUserStore) GetByID(ctx context.Context, id string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getErr != nil {
		return domain.User{}, f.getErr
	}
	u, ok := f.byID[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return u, nil
}

func (f *fakeUserStore) Create(ctx context.Context, u domain.User) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createErr != nil {
		return domain.User{}, f.createErr
	}
	// Mimic the store-level unique constraint.
	for _, existing := range f.byID {
		if existing.Username == u.Username || existing.Email == u.Email {
			return domain.User{}, domain.ErrAccountConflict()
		}
	}
	f.byID[u.ID] = u
	f.byUsername[u.Username] = u.ID
	return u, nil
}

func (f *fakeUserStore) UpdatePasswordHash(ctx context.Context, userID string, newHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.updatePwdErr != nil {
		return f.updatePwdErr
	}
	u, ok := f.byID[userID]
	if !ok {
		return domain.ErrUserNotFound()
	}
	u.PasswordHash = newHash
	f.byID[userID] = u
	f.updatedPwd = append(f.updatedPwd, struct{ id, hash string }{userID, newHash})
	return nil
}

type fakeHasher struct {
	hashFn    func(pw string) (string, error)
	compareFn func(hash, pw string) error

	hashCalls int
}

func (h *fakeHasher) Hash(password string) (string, error) {
	h.hashCalls++
	if h.hashFn != nil {
		return h.hashFn(password)
	}
	// Encode the call count so consecutive hashes of the same password
	// differ, like bcrypt with a fresh salt.
	return fmt.Sprintf("hash%d:%s", h.hashCalls, password), nil
}

func (h *fakeHasher) Compare(hash string, password string) error {
	if h.compareFn != nil {
		return h.compareFn(hash, password)
	}
	var n int
	var pw string
	if _, err := fmt.Sscanf(hash, "hash%d:%s", &n, &pw); err == nil && pw == password {
		return nil
	}
	return fmt.Errorf("mismatch")
}

type fakeSigner struct {
	signFn func(userID, username, role string, ttl time.Duration) (string, error)
}

func (s *fakeSigner) SignAccessToken(userID, username, role string, ttl time.Duration) (string, error) {
	if s.signFn != nil {
		return s.signFn(userID, username, role, ttl)
	}
	return fmt.Sprintf("jwt(%s,%s,%s)", userID, username, role), nil
}

func (s *fakeSigner) VerifyAccessToken(token string) (TokenClaims, error) {
	return TokenClaims{}, nil
}

func newSvcForTest(t *testing.T) (*Service, *fakeUserStore, *fakeHasher, *fakeSigner) {
	t.Helper()

	users := newFakeUserStore()
	hasher := &fakeHasher{}
	signer := &fakeSigner{}

	svc := NewService(users, hasher, signer, Config{AccessTTL: 15 * time.Minute})
	if svc == nil {
		t.Fatalf("svc is nil")
	}

	return svc, users, hasher, signer
}
