package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/threadline/messaging-api/internal/core/domain"
	"github.com/threadline/messaging-api/internal/core/ports"
)

// stubUserRepo is an in-memory ports.UserRepository preserving insertion
// order.
type stubUserRepo struct {
	users  map[string]*domain.User
	order  []string
	nextID int

	failDelete bool
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.nextID++
	u := cloneUser(user)
	u.ID = fmt.Sprintf("user-%d", r.nextID)
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	r.users[u.ID] = u
	r.order = append(r.order, u.ID)
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := r.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, id := range r.order {
		if r.users[id].Username == username {
			return cloneUser(r.users[id]), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, id := range r.order {
		if r.users[id].Email == email {
			return cloneUser(r.users[id]), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) Update(_ context.Context, id string, update ports.UserUpdate) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if update.Username != nil {
		u.Username = *update.Username
	}
	if update.Email != nil {
		u.Email = *update.Email
	}
	if update.PasswordHash != nil {
		u.PasswordHash = *update.PasswordHash
	}
	if update.Role != nil {
		u.Role = *update.Role
	}
	u.UpdatedAt = time.Now().UTC()
	return cloneUser(u), nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	if r.failDelete {
		return fmt.Errorf("simulated delete failure")
	}
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	for i, uid := range r.order {
		if uid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *stubUserRepo) List(_ context.Context) ([]domain.User, error) {
	out := make([]domain.User, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *cloneUser(r.users[id]))
	}
	return out, nil
}

// stubMessageRepo is an in-memory ports.MessageRepository.
type stubMessageRepo struct {
	messages map[string]*domain.Message
	nextID   int
	clock    time.Time

	failDeleteByAuthor bool
}

func newStubMessageRepo() *stubMessageRepo {
	return &stubMessageRepo{
		messages: make(map[string]*domain.Message),
		clock:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func cloneMessage(m *domain.Message) *domain.Message {
	if m == nil {
		return nil
	}
	clone := *m
	return &clone
}

func (r *stubMessageRepo) Create(_ context.Context, message *domain.Message) (*domain.Message, error) {
	r.nextID++
	r.clock = r.clock.Add(time.Second)
	m := cloneMessage(message)
	m.ID = fmt.Sprintf("msg-%d", r.nextID)
	m.CreatedAt = r.clock
	m.UpdatedAt = r.clock
	r.messages[m.ID] = m
	return cloneMessage(m), nil
}

func (r *stubMessageRepo) FindByID(_ context.Context, id string) (*domain.Message, error) {
	if m, ok := r.messages[id]; ok {
		return cloneMessage(m), nil
	}
	return nil, domain.ErrMessageNotFound
}

func (r *stubMessageRepo) List(_ context.Context, page ports.MessagePage) ([]domain.Message, error) {
	out := make([]domain.Message, 0, len(r.messages))
	for _, m := range r.messages {
		if !page.Before.IsZero() && !beforePair(m, page) {
			continue
		}
		out = append(out, *cloneMessage(m))
	}
	sortNewestFirst(out)
	if page.Limit > 0 && len(out) > page.Limit {
		out = out[:page.Limit]
	}
	return out, nil
}

// beforePair mirrors the Mongo cursor filter: strictly earlier in
// (created_at desc, id desc) order than the cursor pair.
func beforePair(m *domain.Message, page ports.MessagePage) bool {
	if m.CreatedAt.Before(page.Before) {
		return true
	}
	return m.CreatedAt.Equal(page.Before) && m.ID < page.BeforeID
}

func sortNewestFirst(out []domain.Message) {
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
}

func (r *stubMessageRepo) ListByAuthor(_ context.Context, userID string) ([]domain.Message, error) {
	out := make([]domain.Message, 0)
	for _, m := range r.messages {
		if m.UserID == userID {
			out = append(out, *cloneMessage(m))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *stubMessageRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.messages[id]; !ok {
		return domain.ErrMessageNotFound
	}
	delete(r.messages, id)
	return nil
}

func (r *stubMessageRepo) DeleteByAuthor(_ context.Context, userID string) (int64, error) {
	if r.failDeleteByAuthor {
		return 0, fmt.Errorf("simulated cascade failure")
	}
	var n int64
	for id, m := range r.messages {
		if m.UserID == userID {
			delete(r.messages, id)
			n++
		}
	}
	return n, nil
}

// stubLimiter is a deterministic ports.SignInLimiter.
type stubLimiter struct {
	allow bool
	err   error
	calls int
}

func (l *stubLimiter) Allow(_ context.Context, _ string) (bool, error) {
	l.calls++
	return l.allow, l.err
}
