package common

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestAuditLog_DoesNotPanic(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	c.Request.RemoteAddr = "192.168.1.1:12345"

	AuditLog(c, AuditEvent{
		Action:   "auth.login",
		UserID:   "user-123",
		UserName: "testuser",
		Resource: "auth:login",
		Success:  true,
	})

	AuditLog(c, AuditEvent{
		Action:  "auth.login",
		Detail:  "invalid password",
		Success: false,
	})
}

func TestAuditLog_NilContext(t *testing.T) {
	AuditLog(nil, AuditEvent{
		Action:   "auth.login",
		ClientIP: "10.0.0.1",
		Success:  true,
	})
}

func TestAuditEvent_Fields(t *testing.T) {
	event := AuditEvent{
		Action:   "post.update",
		UserID:   "user-456",
		UserName: "helper",
		Resource: "post:winter-drive",
		ClientIP: "10.0.0.1",
		Detail:   "test detail",
		Success:  true,
	}

	if event.Action != "post.update" {
		t.Fatalf("Action = %q, want %q", event.Action, "post.update")
	}
	if event.UserID != "user-456" {
		t.Fatalf("UserID = %q, want %q", event.UserID, "user-456")
	}
	if !event.Success {
		t.Fatal("Success should be true")
	}
}
