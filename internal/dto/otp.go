package dto

// RequestOTPRequest starts a verification session for a submission flow.
type RequestOTPRequest struct {
	Email    string `json:"email" binding:"required"`
	FullName string `json:"full_name"`
	Purpose  string `json:"purpose" binding:"required"`
}

// RequestOTPResponse carries the issued session identifier. The camelCase
// alias mirrors the value for clients built against either key.
type RequestOTPResponse struct {
	SessionID      string `json:"session_id"`
	SessionIDAlias string `json:"sessionId"`
	ExpiresIn      int    `json:"expires_in"`
	Detail         string `json:"detail,omitempty"`
}

// VerifyOTPRequest submits the emailed code for a pending session.
type VerifyOTPRequest struct {
	Email     string `json:"email" binding:"required"`
	OTPCode   string `json:"otp_code" binding:"required"`
	SessionID string `json:"session_id" binding:"required"`
	Purpose   string `json:"purpose" binding:"required"`
}

// VerifyOTPResponse reports a successful verification and where the
// originating form lives.
type VerifyOTPResponse struct {
	Verified     bool   `json:"verified"`
	ReturnPath   string `json:"return_path"`
	VerifiedAtMs int64  `json:"verified_at"`
}

// ResendOTPRequest asks for a fresh code. The response is a
// RequestOTPResponse carrying the replacement session id.
type ResendOTPRequest struct {
	Email     string `json:"email" binding:"required"`
	SessionID string `json:"session_id" binding:"required"`
	Purpose   string `json:"purpose" binding:"required"`
}

// VerificationStatusResponse lets a returning form adopt its verified
// identity. Stale or mismatched records report verified=false, never an
// error.
type VerificationStatusResponse struct {
	Verified     bool   `json:"verified"`
	Email        string `json:"email,omitempty"`
	SessionID    string `json:"session_id,omitempty"`
	Purpose      string `json:"purpose,omitempty"`
	VerifiedAtMs int64  `json:"verified_at,omitempty"`
	ReturnPath   string `json:"return_path,omitempty"`
}
