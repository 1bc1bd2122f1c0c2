package posts

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aidlink/aidlink/src/aidlinkd/api/common"
	"github.com/aidlink/aidlink/src/aidlinkd/db"
	"github.com/aidlink/aidlink/src/aidlinkd/db/migrations"
	"github.com/gin-gonic/gin"
)

type fixedTranslator struct {
	internal string
}

func (f *fixedTranslator) T(locale, key string) string {
	if key == "error.internal" {
		return f.internal
	}
	return key
}

// setupRepo opens an in-memory database with the schema applied and
// returns it alongside a post repository.
func setupRepo(t *testing.T) (*db.Database, *db.PostRepository) {
	t.Helper()

	database, err := db.New(db.Config{Path: ":memory:"})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { database.Shutdown() })

	if err := migrations.NewRunner(database.DB()).Run(); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return database, db.NewPostRepository(database)
}

func listRequest(t *testing.T, h *Handler, locale string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/v1/posts", nil)
	if locale != "" {
		c.Set("locale", locale)
	}
	h.HandleList(c)
	return w
}

func TestHandleListDatabaseFailureKeepsDetailServerSide(t *testing.T) {
	database, repo := setupRepo(t)
	h := NewHandler(Config{
		PostRepo:   repo,
		Translator: &fixedTranslator{internal: "Algo correu mal."},
	})

	// Every query fails once the database is gone.
	database.Shutdown()

	w := listRequest(t, h, "pt")

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", w.Code)
	}

	body := w.Body.String()
	for _, leak := range []string{"sql:", "database is closed", "query_failed", "SELECT"} {
		if strings.Contains(body, leak) {
			t.Errorf("response leaked internal detail %q: %s", leak, body)
		}
	}

	var resp common.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Message != "Algo correu mal." {
		t.Errorf("expected the locale message, got %q", resp.Message)
	}
}

func TestHandleGetMissingPostStaysNotFound(t *testing.T) {
	_, repo := setupRepo(t)
	h := NewHandler(Config{PostRepo: repo, Translator: &fixedTranslator{internal: "nope"}})

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/v1/posts/missing", nil)
	c.Params = gin.Params{{Key: "slug", Value: "missing"}}

	h.HandleGet(c)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", w.Code)
	}
	if strings.Contains(w.Body.String(), "nope") {
		t.Errorf("client error must not collapse to the internal message: %s", w.Body.String())
	}
}
