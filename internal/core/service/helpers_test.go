package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/epicevents/crm/internal/core/authz"
	"github.com/epicevents/crm/internal/core/domain"
	"github.com/epicevents/crm/internal/core/ports"
	"github.com/epicevents/crm/internal/infrastructure/db/memory"
	"github.com/epicevents/crm/internal/pkg/password"
	"github.com/epicevents/crm/internal/pkg/token"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

// stubStore is a single-slot session store with injectable failures.
type stubStore struct {
	token    string
	saved    int
	cleared  int
	saveErr  error
	loadErr  error
	clearErr error
}

func (s *stubStore) Save(_ context.Context, tok string) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.token = tok
	s.saved++
	return nil
}

func (s *stubStore) Load(_ context.Context) (string, bool, error) {
	if s.loadErr != nil {
		return "", false, s.loadErr
	}
	return s.token, s.token != "", nil
}

func (s *stubStore) Clear(_ context.Context) error {
	s.cleared++
	if s.clearErr != nil {
		return s.clearErr
	}
	s.token = ""
	return nil
}

// recordingConfirmer answers every confirmation with answer and remembers
// what it was asked.
type recordingConfirmer struct {
	answer    bool
	summaries []string
}

func (c *recordingConfirmer) Confirm(_ context.Context, summary string) bool {
	c.summaries = append(c.summaries, summary)
	return c.answer
}

// ---------------------------------------------------------------------------
// Fixture
// ---------------------------------------------------------------------------

const (
	testPassword = "correct-horse-battery"
	testTTL      = 30 * time.Minute
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

type fixture struct {
	dir      ports.Directory
	clock    *fakeClock
	store    *stubStore
	confirm  *recordingConfirmer
	hasher   *password.Argon2
	creds    *CredentialStore
	codec    *token.Codec
	sessions *SessionManager

	clients       *ClientService
	contracts     *ContractService
	events        *EventService
	collaborators *CollaboratorService
}

func fastHasher(t *testing.T) *password.Argon2 {
	t.Helper()
	h, err := password.NewArgon2(password.Config{
		Memory:      8 * 1024,
		Time:        1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	})
	if err != nil {
		t.Fatalf("NewArgon2: %v", err)
	}
	return h
}

func newFixture(t *testing.T) *fixture {
	return newFixtureWithStore(t, &stubStore{})
}

func newFixtureWithStore(t *testing.T, store ports.SessionStore) *fixture {
	t.Helper()

	f := &fixture{
		dir:     memory.New().Directory(),
		clock:   &fakeClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)},
		confirm: &recordingConfirmer{answer: true},
		hasher:  fastHasher(t),
	}
	if s, ok := store.(*stubStore); ok {
		f.store = s
	}

	var err error
	if f.creds, err = NewCredentialStore(f.hasher); err != nil {
		t.Fatalf("NewCredentialStore: %v", err)
	}
	if f.codec, err = token.NewCodec(testSecret, token.WithClock(f.clock.Now)); err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	if err := NewRoleSeeder(f.dir.Roles, zerolog.Nop()).EnsureDefaults(context.Background()); err != nil {
		t.Fatalf("EnsureDefaults: %v", err)
	}

	log := zerolog.Nop()
	engine := authz.NewEngine()
	f.sessions = NewSessionManager(f.dir, f.creds, f.codec, store, testTTL, log)
	f.clients = NewClientService(f.dir, f.sessions, engine, f.confirm, log)
	f.clients.now = f.clock.Now
	f.contracts = NewContractService(f.dir, f.sessions, engine, f.confirm, log)
	f.contracts.now = f.clock.Now
	f.events = NewEventService(f.dir, f.sessions, engine, f.confirm, log)
	f.collaborators = NewCollaboratorService(f.dir, f.sessions, f.creds, engine, f.confirm, log)
	return f
}

var nextEmployee = 100

// addUser stores a collaborator directly, bypassing authorization.
func (f *fixture) addUser(t *testing.T, fullName, email, role string) *domain.User {
	t.Helper()
	nextEmployee++
	user, err := newCollaborator(context.Background(), f.dir.Roles, f.creds, ports.SignupInput{
		EmployeeNumber: nextEmployee,
		FullName:       fullName,
		Email:          email,
		Department:     role,
		Role:           role,
		Password:       testPassword,
	})
	if err != nil {
		t.Fatalf("newCollaborator: %v", err)
	}
	if err := f.dir.Users.Create(context.Background(), user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

// login opens a fresh session for email.
func (f *fixture) login(t *testing.T, email string) *SessionContext {
	t.Helper()
	sc := NewSessionContext()
	if _, err := f.sessions.Login(context.Background(), sc, email, testPassword); err != nil {
		t.Fatalf("login %s: %v", email, err)
	}
	return sc
}

func mustIs(t *testing.T, err, want error) {
	t.Helper()
	if !errors.Is(err, want) {
		t.Fatalf("expected %v, got %v", want, err)
	}
}

func ptr[T any](v T) *T { return &v }
