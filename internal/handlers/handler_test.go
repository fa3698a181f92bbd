// handler_test.go provides shared test infrastructure for handler tests.
// Database-backed tests run against a temp-file SQLite database; tests
// that need the session store are skipped when Valkey is unavailable.
package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	"inkwell/internal/database"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/render"
	"inkwell/internal/session"
	"inkwell/internal/store"
	"inkwell/internal/upload"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a fresh temp-file SQLite database and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.Connect(filepath.Join(t.TempDir(), "inkwell_test.db"))
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testValkeyClient returns a Redis client for session tests on DB 15.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("INKWELL_VALKEY_HOST", "localhost")
	port := envOr("INKWELL_VALKEY_PORT", "6379")
	password := os.Getenv("INKWELL_VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, "session:*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})

	return client
}

// testEnv holds the dependencies shared by handler tests.
type testEnv struct {
	DB       *sql.DB
	Renderer *render.Renderer
	Admins   *store.AdminStore
	Contents *store.ContentStore
	Uploads  *upload.Store
	Admin    *Admin
	Public   *Public
}

// newTestEnv creates a test environment for the handlers that don't need
// the session store.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testDB(t)

	renderer, err := render.New()
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}

	uploads, err := upload.NewStore(filepath.Join(t.TempDir(), "uploads"))
	if err != nil {
		t.Fatalf("upload.NewStore: %v", err)
	}

	admins := store.NewAdminStore(db)
	contents := store.NewContentStore(db)

	return &testEnv{
		DB:       db,
		Renderer: renderer,
		Admins:   admins,
		Contents: contents,
		Uploads:  uploads,
		Admin:    NewAdmin(renderer, contents, uploads),
		Public:   NewPublic(renderer, contents, uploads),
	}
}

// newAuthEnv builds an Auth handler group backed by a real Valkey session
// store, skipping the test when Valkey is unreachable.
func newAuthEnv(t *testing.T, env *testEnv) (*Auth, *session.Store) {
	t.Helper()

	sessions := session.NewStore(testValkeyClient(t), false)
	return NewAuth(env.Renderer, sessions, env.Admins), sessions
}

// newAuthEnvNoSessions builds an Auth handler group for tests that never
// touch the session store.
func newAuthEnvNoSessions(t *testing.T, env *testEnv) *Auth {
	t.Helper()
	return NewAuth(env.Renderer, session.NewStore(nil, false), env.Admins)
}

// ctxWithSession adds session data to a context using the middleware key.
func ctxWithSession(ctx context.Context, data *session.Data) context.Context {
	return context.WithValue(ctx, middleware.SessionKey, data)
}

// testSession creates session data for handler tests.
func testSession(adminID int64, username, role string, twoFADone bool) *session.Data {
	return &session.Data{
		AdminID:   adminID,
		Username:  username,
		Role:      role,
		TwoFADone: twoFADone,
	}
}

// withChiURLParam adds a chi URL parameter to a request.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// withChiURLParamAndSession adds both a chi URL param and a session.
func withChiURLParamAndSession(r *http.Request, key, value string, sess *session.Data) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	ctx := context.WithValue(r.Context(), chi.RouteCtxKey, rctx)
	ctx = context.WithValue(ctx, middleware.SessionKey, sess)
	return r.WithContext(ctx)
}

// createAdmin inserts an account directly through the store.
func createAdmin(t *testing.T, env *testEnv, username, password string, role models.Role) *models.AdminUser {
	t.Helper()
	user, err := env.Admins.Create(username, password, role)
	if err != nil {
		t.Fatalf("create admin %q: %v", username, err)
	}
	return user
}

// createContent inserts a content item directly through the store.
func createContent(t *testing.T, env *testEnv, title string, published bool, creatorID *int64) *models.ContentItem {
	t.Helper()
	item, err := env.Contents.Create(&models.ContentItem{
		Title:       title,
		Body:        "body of " + title,
		IsPublished: published,
		CreatorID:   creatorID,
	})
	if err != nil {
		t.Fatalf("create content %q: %v", title, err)
	}
	return item
}

// multipartBody builds a multipart form request body from text fields and
// an optional file part named "image".
func multipartBody(t *testing.T, fields map[string]string, imageName string, imageData []byte) (io.Reader, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field %q: %v", k, err)
		}
	}
	if imageName != "" {
		fw, err := mw.CreateFormFile("image", imageName)
		if err != nil {
			t.Fatalf("create file part: %v", err)
		}
		if _, err := fw.Write(imageData); err != nil {
			t.Fatalf("write file part: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	return &buf, mw.FormDataContentType()
}
