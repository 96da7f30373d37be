package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"

	"github.com/haulmatic/user-directory/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stub repository. Username uniqueness is checked under the same
// lock as the insert, mirroring a unique index.
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	mu        sync.Mutex
	byID      map[string]*domain.User
	order     []string
	nextID    int
	resets    int
	ensures   int
	findErr   error
	updateErr error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Username == user.Username {
			return nil, domain.ErrUsernameTaken
		}
	}
	r.nextID++
	c := cloneUser(user)
	c.ID = strconv.Itoa(r.nextID)
	r.byID[c.ID] = c
	r.order = append(r.order, c.ID)
	return cloneUser(c), nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, u := range r.byID {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.User, 0, len(r.order))
	for _, id := range r.order {
		c := cloneUser(r.byID[id])
		c.PasswordHash = ""
		out = append(out, c)
	}
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, id string, p domain.UserPatch) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return nil, r.updateErr
	}
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if p.Username != nil {
		for otherID, other := range r.byID {
			if otherID != id && other.Username == *p.Username {
				return nil, domain.ErrUsernameTaken
			}
		}
		u.Username = *p.Username
	}
	if p.Firstname != nil {
		u.Firstname = *p.Firstname
	}
	if p.Lastname != nil {
		u.Lastname = *p.Lastname
	}
	if p.PasswordHash != nil {
		u.PasswordHash = *p.PasswordHash
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	if u.Role == domain.RoleAdmin {
		return domain.ErrAdminProtected
	}
	delete(r.byID, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *stubUserRepo) EnsureSchema(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensures++
	return nil
}

func (r *stubUserRepo) Reset(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resets++
	r.byID = make(map[string]*domain.User)
	r.order = nil
	return nil
}

func (r *stubUserRepo) Ping(context.Context) error { return nil }

// ---------------------------------------------------------------------------
// Credential stubs
// ---------------------------------------------------------------------------

type stubHasher struct{}

func (stubHasher) Hash(secret string) (string, error) {
	if secret == "" {
		return "", domain.ErrEmptySecret
	}
	return "hashed:" + secret, nil
}

func (stubHasher) Verify(secret, hash string) bool {
	return hash == "hashed:"+secret
}

type stubCodec struct {
	issueErr error
	issued   []domain.Identity
}

func (c *stubCodec) Issue(id domain.Identity) (string, error) {
	if c.issueErr != nil {
		return "", c.issueErr
	}
	c.issued = append(c.issued, id)
	return "token-for-" + id.Username, nil
}

func (c *stubCodec) Verify(token string) (*domain.Identity, error) {
	for _, id := range c.issued {
		if token == "token-for-"+id.Username {
			id := id
			return &id, nil
		}
	}
	return nil, domain.ErrInvalidToken
}

type stubLock struct {
	acquired   bool
	acquireErr error
	released   int
}

func (l *stubLock) Acquire(context.Context) (bool, error) { return l.acquired, l.acquireErr }

func (l *stubLock) Release(context.Context) error {
	l.released++
	return nil
}

func isHashed(s string) bool { return strings.HasPrefix(s, "hashed:") }

var errStoreDown = errors.New("store unavailable")
