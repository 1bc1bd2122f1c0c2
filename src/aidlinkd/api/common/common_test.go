package common

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aidlink/aidlink/src/common/errors"
	"github.com/gin-gonic/gin"
)

type staticTranslator struct {
	messages map[string]map[string]string
}

func (s *staticTranslator) T(locale, key string) string {
	if msg, ok := s.messages[locale][key]; ok {
		return msg
	}
	return key
}

func testContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/v1/posts", nil)
	return c, w
}

func TestRespondErrorHidesInternalCause(t *testing.T) {
	c, w := testContext(t)

	cause := errors.ErrDatabaseQuery.WithCause(errStub("sql: database is closed"))
	RespondError(c, nil, cause)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", w.Code)
	}

	body := w.Body.String()
	if strings.Contains(body, "sql:") || strings.Contains(body, "database is closed") {
		t.Errorf("response leaked the underlying cause: %s", body)
	}
	if strings.Contains(body, "query_failed") {
		t.Errorf("response leaked the internal error code: %s", body)
	}

	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Message != "Internal server error" {
		t.Errorf("expected the generic message without a translator, got %q", resp.Message)
	}
}

func TestRespondErrorTranslatesForRequestLocale(t *testing.T) {
	c, w := testContext(t)
	c.Set("locale", "pt")

	tr := &staticTranslator{messages: map[string]map[string]string{
		"pt": {"error.internal": "Algo correu mal. Tente novamente mais tarde."},
	}}
	RespondError(c, tr, errors.ErrDatabaseQuery.WithCause(errStub("driver detail")))

	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Message != "Algo correu mal. Tente novamente mais tarde." {
		t.Errorf("expected the pt message, got %q", resp.Message)
	}
}

func TestRespondErrorKeepsClientErrors(t *testing.T) {
	c, w := testContext(t)

	RespondError(c, nil, errors.ErrPostNotFound)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", w.Code)
	}

	var resp errors.Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !strings.Contains(resp.Error, "not_found") {
		t.Errorf("expected the structured code to survive, got %q", resp.Error)
	}
}

type errStub string

func (e errStub) Error() string { return string(e) }
