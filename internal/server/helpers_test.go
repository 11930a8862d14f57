package server

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/stadtaev/tennisfinals/internal/archive"
	"github.com/stadtaev/tennisfinals/internal/database"
	"github.com/stadtaev/tennisfinals/internal/migrations"
	"github.com/stadtaev/tennisfinals/internal/tennis"
)

const (
	testAdminEmail    = "admin@tennis.test"
	testAdminPassword = "changeme"
)

// setupTestDB returns a migrated in-memory database.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, err := migrations.Run(db); err != nil {
		t.Fatalf("running migrations: %v", err)
	}
	return db
}

type outcomeCall struct {
	winner, loser string
	sign          int
}

// recordingSink remembers every outcome it receives.
type recordingSink struct {
	mu    sync.Mutex
	calls []outcomeCall
}

func (s *recordingSink) Record(winner, loser string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, outcomeCall{winner, loser, 1})
}

func (s *recordingSink) Revert(winner, loser string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, outcomeCall{winner, loser, -1})
}

func (s *recordingSink) count(sign int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		if c.sign == sign {
			n++
		}
	}
	return n
}

// memArchive keeps archived tournaments in memory.
type memArchive struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newMemArchive() *memArchive {
	return &memArchive{objects: make(map[string][]byte)}
}

func (a *memArchive) Put(_ context.Context, id string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.objects[id] = data
	return nil
}

func (a *memArchive) Get(_ context.Context, id string) ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	data, ok := a.objects[id]
	if !ok {
		return nil, archive.ErrNotFound
	}
	return data, nil
}

type testEnv struct {
	router  *chi.Mux
	store   *DocStore
	admin   *AdminDocStore
	arena   *Arena
	broker  *Broker
	sink    *recordingSink
	archive *memArchive
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := setupTestDB(t)

	env := &testEnv{
		store:   NewDocStore(db),
		admin:   NewAdminDocStore(db),
		broker:  NewBroker(),
		sink:    &recordingSink{},
		archive: newMemArchive(),
	}
	if _, err := env.admin.EnsureAdmin(context.Background(), testAdminEmail, testAdminPassword); err != nil {
		t.Fatalf("seeding admin: %v", err)
	}
	env.arena = NewArena(slog.Default(), env.store, env.sink)
	env.router = newRouter(slog.Default(), Deps{
		Admin:   env.admin,
		Players: env.store,
		Arena:   env.arena,
		Broker:  env.broker,
		Archive: env.archive,
		Defaults: Defaults{
			Format:     tennis.FormatTwoSets,
			Grid:       tennis.DefaultGrid(),
			RosterSize: 10,
		},
	})
	return env
}

// login signs in the seeded admin and returns the session cookies.
func (e *testEnv) login(t *testing.T) []*http.Cookie {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/admin/login",
		AdminLoginRequest{Email: testAdminEmail, Password: testAdminPassword}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	return w.Result().Cookies()
}

func (e *testEnv) do(t *testing.T, method, path string, body any, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(w.Body).Decode(&v); err != nil {
		t.Fatalf("decoding response: %v (body %q)", err, w.Body.String())
	}
	return v
}

// registerPlayers adds players to the roster with the default level.
func registerPlayers(t *testing.T, store PlayerStore, names ...string) {
	t.Helper()
	for _, name := range names {
		if _, err := store.RegisterPlayer(context.Background(), name, defaultLevel); err != nil {
			t.Fatalf("registering %s: %v", name, err)
		}
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met before deadline")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

// streamRecorder is a ResponseWriter that can be read while a streaming
// handler is still writing to it.
type streamRecorder struct {
	mu   sync.Mutex
	h    http.Header
	buf  bytes.Buffer
	code int
}

func newStreamRecorder() *streamRecorder {
	return &streamRecorder{h: make(http.Header)}
}

func (r *streamRecorder) Header() http.Header { return r.h }

func (r *streamRecorder) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buf.Write(p)
}

func (r *streamRecorder) WriteHeader(code int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.code = code
}

func (r *streamRecorder) Flush() {}

func (r *streamRecorder) body() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buf.String()
}

func (r *streamRecorder) header() http.Header { return r.h }
