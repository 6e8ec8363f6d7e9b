package session

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) (*Manager, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.json")
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
	return NewManager(NewStore(path), logger), path
}

func validState() State {
	return State{AccessToken: "jwt-token", UserID: "uid-1", Username: "freelancer"}
}

func TestStore_RoundTrip(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "session.json"))

	require.NoError(t, store.Save(validState()))

	state, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, validState(), state)
}

func TestStore_MissingFile(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "session.json"))

	_, err := store.Load()
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestStore_CorruptFileCleared(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o600))

	store := NewStore(path)
	_, err := store.Load()
	assert.ErrorIs(t, err, ErrNoSession)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestStore_PartialSnapshotCleared(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"access_token": "jwt-token"}`), 0o600))

	store := NewStore(path)
	_, err := store.Load()
	assert.ErrorIs(t, err, ErrNoSession)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestStore_RejectsIncompleteSave(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "session.json"))

	err := store.Save(State{AccessToken: "jwt-token"})
	assert.Error(t, err)
}

func TestManager_StartsLoading(t *testing.T) {
	m, _ := newTestManager(t)
	assert.Equal(t, StatusLoading, m.Current().Status)

	_, _, ok := m.Authorize()
	assert.False(t, ok)
}

func TestManager_RestoreWithoutSession(t *testing.T) {
	m, _ := newTestManager(t)

	snap := m.Restore()
	assert.Equal(t, StatusUnauthenticated, snap.Status)
	assert.Empty(t, snap.Username)
}

func TestManager_RestoreExistingSession(t *testing.T) {
	m, path := newTestManager(t)
	require.NoError(t, NewStore(path).Save(validState()))

	snap := m.Restore()
	assert.Equal(t, StatusAuthenticated, snap.Status)
	assert.Equal(t, "freelancer", snap.Username)
	assert.Equal(t, "uid-1", snap.UserID)

	token, _, ok := m.Authorize()
	assert.True(t, ok)
	assert.Equal(t, "jwt-token", token)
}

func TestManager_LoginPersists(t *testing.T) {
	m, path := newTestManager(t)
	m.Restore()

	snap := m.Login(validState())
	assert.Equal(t, StatusAuthenticated, snap.Status)

	state, err := NewStore(path).Load()
	require.NoError(t, err)
	assert.Equal(t, validState(), state)
}

func TestManager_LoginIgnoresIncompleteState(t *testing.T) {
	m, path := newTestManager(t)
	m.Restore()

	var calls int
	m.Subscribe(func(Snapshot) { calls++ })

	for _, state := range []State{
		{},
		{AccessToken: "jwt-token"},
		{AccessToken: "jwt-token", UserID: "uid-1"},
		{UserID: "uid-1", Username: "freelancer"},
	} {
		snap := m.Login(state)
		assert.Equal(t, StatusUnauthenticated, snap.Status)
	}
	assert.Zero(t, calls, "incomplete login must not notify")

	_, _, ok := m.Authorize()
	assert.False(t, ok)

	_, err := NewStore(path).Load()
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestManager_LogoutClearsStore(t *testing.T) {
	m, path := newTestManager(t)
	m.Restore()
	m.Login(validState())

	snap := m.Logout()
	assert.Equal(t, StatusUnauthenticated, snap.Status)
	assert.Empty(t, snap.Username)

	_, err := NewStore(path).Load()
	assert.ErrorIs(t, err, ErrNoSession)

	_, _, ok := m.Authorize()
	assert.False(t, ok)
}

func TestManager_LogoutIdempotent(t *testing.T) {
	m, _ := newTestManager(t)
	m.Restore()
	m.Login(validState())

	var calls int
	m.Subscribe(func(Snapshot) { calls++ })

	m.Logout()
	first := calls
	m.Logout()
	assert.Equal(t, first, calls, "second logout must not notify again")
}

func TestManager_StaleUnauthorizedIgnored(t *testing.T) {
	m, _ := newTestManager(t)
	m.Restore()
	m.Login(validState())

	_, staleGen, ok := m.Authorize()
	require.True(t, ok)

	// Пользователь успел войти заново, поколение сменилось.
	m.Logout()
	m.Login(validState())

	m.HandleUnauthorized(staleGen)
	assert.Equal(t, StatusAuthenticated, m.Current().Status)
}

func TestManager_CurrentUnauthorizedForcesLogout(t *testing.T) {
	m, _ := newTestManager(t)
	m.Restore()
	m.Login(validState())

	_, gen, ok := m.Authorize()
	require.True(t, ok)

	m.HandleUnauthorized(gen)
	assert.Equal(t, StatusUnauthenticated, m.Current().Status)
}

func TestManager_StillCurrent(t *testing.T) {
	m, _ := newTestManager(t)
	m.Restore()
	m.Login(validState())

	_, gen, ok := m.Authorize()
	require.True(t, ok)
	assert.True(t, m.StillCurrent(gen))

	m.Logout()
	assert.False(t, m.StillCurrent(gen))
}

func TestManager_SubscribeSeesTransitions(t *testing.T) {
	m, _ := newTestManager(t)

	var seen []Status
	m.Subscribe(func(s Snapshot) { seen = append(seen, s.Status) })

	m.Restore()
	m.Login(validState())
	m.Logout()

	assert.Equal(t, []Status{StatusUnauthenticated, StatusAuthenticated, StatusUnauthenticated}, seen)
}
