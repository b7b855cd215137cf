package services

import (
	"context"
	"database/sql"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testAccessSecret  = "access-secret-for-tests"
	testRefreshSecret = "refresh-secret-for-tests"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type recordingNotifier struct {
	mu         sync.Mutex
	deliveries []models.Delivery
	err        error
}

func (n *recordingNotifier) Notify(ctx context.Context, d models.Delivery) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.deliveries = append(n.deliveries, d)
	return nil
}

func (n *recordingNotifier) last(t *testing.T) models.Delivery {
	t.Helper()
	n.mu.Lock()
	defer n.mu.Unlock()
	require.NotEmpty(t, n.deliveries, "no delivery recorded")
	return n.deliveries[len(n.deliveries)-1]
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.deliveries)
}

func newTestTokens(t *testing.T, clock *fakeClock, accessSecret, refreshSecret string) *auth.TokenManager {
	t.Helper()
	tm, err := auth.NewTokenManager(auth.TokenConfig{
		AccessSecret:     accessSecret,
		RefreshSecret:    refreshSecret,
		AccessTTL:        time.Hour,
		RefreshTTL:       7 * 24 * time.Hour,
		PasswordResetTTL: 15 * time.Minute,
		VerificationTTL:  time.Hour,
		Now:              clock.Now,
	})
	require.NoError(t, err)
	return tm
}

func newTestHasher(t *testing.T) *auth.PasswordHasher {
	t.Helper()
	h, err := auth.NewPasswordHasher(bcrypt.MinCost)
	require.NoError(t, err)
	return h
}

type testEnv struct {
	svc      *AccountService
	db       *sql.DB
	clock    *fakeClock
	notifier *recordingNotifier
}

// newSQLiteEnv builds a service over a migrated SQLite file. A single
// connection serialises transactions the same way the server does.
func newSQLiteEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "gophauth.db"))
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	rm := repomanager.NewSQLiteRepositoryManager()
	require.NoError(t, rm.RunMigrations(context.Background(), db))

	clock := newFakeClock()
	n := &recordingNotifier{}
	svc := NewAccountService(db, rm, newTestTokens(t, clock, testAccessSecret, testRefreshSecret), newTestHasher(t), n, logging.Discard())
	return &testEnv{svc: svc, db: db, clock: clock, notifier: n}
}

// newMockEnv builds a service over sqlmock with the Postgres repositories.
func newMockEnv(t *testing.T, db *sql.DB) *testEnv {
	t.Helper()
	clock := newFakeClock()
	n := &recordingNotifier{}
	svc := NewAccountService(db, repomanager.NewPostgresRepositoryManager(), newTestTokens(t, clock, testAccessSecret, testRefreshSecret), newTestHasher(t), n, logging.Discard())
	return &testEnv{svc: svc, db: db, clock: clock, notifier: n}
}

func (e *testEnv) countAccounts(t *testing.T, where string, arg any) int {
	t.Helper()
	var n int
	require.NoError(t, e.db.QueryRow("select count(*) from accounts where "+where+" = ?", arg).Scan(&n))
	return n
}

func (e *testEnv) registerAlice(t *testing.T) *models.PublicAccount {
	t.Helper()
	a, err := e.svc.Register(context.Background(), "alice", "Passw0rd!", "a@x.com", "1234567890", "")
	require.NoError(t, err)
	return a
}
