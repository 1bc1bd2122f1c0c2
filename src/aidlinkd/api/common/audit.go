package common

import (
	"github.com/aidlink/aidlink/src/common/logs"
	"github.com/gin-gonic/gin"
)

var auditLogger = logs.NewDefault()

// SetAuditLogger sets the logger used for audit events.
func SetAuditLogger(l *logs.Logger) {
	if l != nil {
		auditLogger = l
	}
}

// AuditEvent records who changed what on the platform: logins, post
// edits, profile changes and language pack management.
type AuditEvent struct {
	// Action identifies the operation, "auth.login" or "post.update" for instance.
	Action string
	// UserID is the authenticated user's ID (empty for unauthenticated requests).
	UserID string
	// UserName is the authenticated user's name.
	UserName string
	// Resource identifies the target, a "post:winter-clothes-drive" slug
	// or a "user:<id>" reference.
	Resource string
	// ClientIP is the client's IP address.
	ClientIP string
	// Detail provides optional extra context.
	Detail string
	// Success indicates whether the operation succeeded.
	Success bool
}

// AuditLog emits a structured audit entry from a gin request context.
// Every entry carries audit=true so deployments can route the trail to
// its own sink.
func AuditLog(c *gin.Context, event AuditEvent) {
	status := "success"
	if !event.Success {
		status = "failure"
	}

	clientIP := event.ClientIP
	if clientIP == "" && c != nil {
		clientIP = c.ClientIP()
	}

	args := []any{
		"audit", true,
		"action", event.Action,
		"status", status,
		"client_ip", clientIP,
	}

	if event.UserID != "" {
		args = append(args, "user_id", event.UserID, "user_name", event.UserName)
	}
	if event.Resource != "" {
		args = append(args, "resource", event.Resource)
	}
	if event.Detail != "" {
		args = append(args, "detail", event.Detail)
	}

	auditLogger.Info("audit", args...)
}
