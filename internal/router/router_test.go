package router

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harshk49/notes-app-backend/internal/auth"
	"github.com/harshk49/notes-app-backend/internal/config"
	"github.com/harshk49/notes-app-backend/internal/handler"
	"github.com/harshk49/notes-app-backend/internal/logger"
	"github.com/harshk49/notes-app-backend/internal/repository"
)

const testSecret = "router-test-secret"

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

// newServer wires the full route table against a mock store and no Redis,
// so the cache and rate-limit middleware run in their disabled form.
func newServer(t *testing.T) (*echo.Echo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := config.Config{JWTSecret: testSecret, BcryptCost: 4}
	a := handler.NewAuthHandler(cfg, repository.NewUserRepo(db))
	n := handler.NewNoteHandler(repository.NewNoteRepo(db), "")

	e := echo.New()
	Register(e, cfg, a, n, nil)
	return e, mock
}

func TestProtectedRoutesRejectMissingToken(t *testing.T) {
	e, _ := newServer(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/get-user"},
		{http.MethodPost, "/add-note"},
		{http.MethodPut, "/edit-note/1"},
		{http.MethodGet, "/get-all-notes"},
		{http.MethodDelete, "/delete-note/1"},
		{http.MethodPut, "/update-note-pinned/1"},
		{http.MethodGet, "/search-notes"},
	} {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", tc.method, tc.path)
	}
}

func TestHealthAndAccountRoutesArePublic(t *testing.T) {
	e, _ := newServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	// Reaches the handler (fails validation, not auth).
	req = httptest.NewRequest(http.MethodPost, "/create-account", nil)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthenticatedRequestFlowsThrough(t *testing.T) {
	e, mock := newServer(t)

	now := time.Now()
	mock.ExpectQuery("FROM notes WHERE owner_id").
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "owner_id", "title", "content", "tags", "is_pinned", "created_at", "updated_at"}).
			AddRow(1, 3, "T", "C", []byte(`[]`), false, now, now))

	tok, err := auth.IssueToken(testSecret, 3, "a@x.com")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/get-all-notes", nil)
	req.Header.Set("Authorization", "Bearer "+tok.Token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"notes"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}
