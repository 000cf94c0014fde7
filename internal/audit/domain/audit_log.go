package domain

import "time"

// Actions recorded by the session manager, the collaboration store and the document chamber.
const (
	ActionLogin                 = "login"
	ActionLoginFailure          = "login_failure"
	ActionRegister              = "register"
	ActionLogout                = "logout"
	ActionProfileUpdate         = "profile_update"
	ActionPasswordResetRequest  = "password_reset_request"
	ActionPasswordReset         = "password_reset"
	ActionSecondFactorVerified  = "second_factor_verified"
	ActionSecondFactorFailure   = "second_factor_failure"
	ActionRequestCreated        = "request_created"
	ActionRequestStatusChanged  = "request_status_changed"
	ActionDocumentUploaded      = "document_uploaded"
	ActionDocumentStatusChanged = "document_status_changed"
	ActionDocumentDeleted       = "document_deleted"
)

// Resources an audit entry may refer to.
const (
	ResourceSession  = "session"
	ResourceUser     = "user"
	ResourceRequest  = "collaboration_request"
	ResourceDocument = "document"
)

// AuditLog represents an audit event. UserID is empty for anonymous events such as a failed login.
type AuditLog struct {
	ID        string
	ClientID  string
	UserID    string
	Action    string
	Resource  string
	IP        string
	Metadata  string
	CreatedAt time.Time
}
