package user

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/saulo-duarte/interviewace-api/internal/auth"
	"github.com/saulo-duarte/interviewace-api/internal/config"
)

type fakeRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*User
	err   error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: make(map[uuid.UUID]*User)}
}

func (r *fakeRepo) Create(_ context.Context, u *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return ErrEmailExists
		}
	}
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeRepo) FindByID(_ context.Context, id uuid.UUID) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeRepo) FindByEmail(_ context.Context, email string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *fakeRepo) Update(_ context.Context, u *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeRepo) get(id uuid.UUID) *User {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.users[id]
}

type fakeAvatarStore struct {
	uploaded  []byte
	deleted   []string
	uploadErr error
	deleteErr error
}

func (s *fakeAvatarStore) Upload(_ context.Context, r io.Reader, _ int64, _ string, ext string) (string, string, error) {
	if s.uploadErr != nil {
		return "", "", s.uploadErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", "", err
	}
	s.uploaded = data
	key := "profile_pictures/new" + ext
	return "https://cdn.example.com/profile-pictures/" + key, key, nil
}

func (s *fakeAvatarStore) Delete(_ context.Context, key string) error {
	s.deleted = append(s.deleted, key)
	return s.deleteErr
}

type sentMail struct {
	to  string
	otp string
}

type fakeMailer struct {
	sent []sentMail
	err  error
}

func (m *fakeMailer) SendPasswordResetOTP(_ context.Context, recipient, otp string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to: recipient, otp: otp})
	return nil
}

var errDatabaseDown = errors.New("database down")

type testEnv struct {
	repo    *fakeRepo
	avatars *fakeAvatarStore
	mailer  *fakeMailer
	service *userService
	now     time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	t.Setenv("JWT_SECRET", "access-secret-for-tests")
	t.Setenv("JWT_REFRESH_SECRET", "refresh-secret-for-tests")
	auth.Init()

	env := &testEnv{
		repo:    newFakeRepo(),
		avatars: &fakeAvatarStore{},
		mailer:  &fakeMailer{},
		now:     time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	tokens := config.JWTConfig{AccessTTL: time.Hour, RefreshTTL: 24 * time.Hour}
	svc := NewService(env.repo, &config.PasswordConfig{BcryptCost: 4}, tokens, env.avatars, env.mailer).(*userService)
	svc.now = func() time.Time { return env.now }
	env.service = svc
	return env
}

func (e *testEnv) seedUser(t *testing.T, email, password string, roles ...string) *User {
	t.Helper()
	if len(roles) == 0 {
		roles = []string{RoleUser}
	}
	hash, err := (&config.PasswordConfig{BcryptCost: 4}).HashPassword(password)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	u := &User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		Firstname:    "Jane",
		Lastname:     "Doe",
		Roles:        roles,
	}
	if err := e.repo.Create(context.Background(), u); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return u
}
