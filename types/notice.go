package types

// Severity classifies how a Notice should be presented to the user.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Notice is a non-fatal, user-visible message produced when an operation is
// rejected by policy. A Notice never aborts the caller; the rejected
// operation is simply a no-op and the graph is left unchanged. Code tells
// clients which policy refused the operation.
type Notice struct {
	Code     ErrorCode `json:"code,omitempty"`
	Message  string    `json:"message"`
	Severity Severity  `json:"severity"`
}

// Reject creates an error-severity Notice carrying ErrPolicyRejected.
func Reject(message string) *Notice {
	return RejectCode(ErrPolicyRejected, message)
}

// RejectCode creates an error-severity Notice with an explicit code.
func RejectCode(code ErrorCode, message string) *Notice {
	return &Notice{Code: code, Message: message, Severity: SeverityError}
}

// Warn creates a warning-severity Notice.
func Warn(message string) *Notice {
	return &Notice{Message: message, Severity: SeverityWarning}
}
