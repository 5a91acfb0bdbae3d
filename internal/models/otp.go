package models

import "time"

// Purpose tags which submission flow an OTP session belongs to. A code
// issued for one flow never authorizes a different one.
type Purpose string

const (
	PurposeProject  Purpose = "project_submission"
	PurposeResearch Purpose = "research_submission"
	PurposeJournal  Purpose = "journal_submission"
	PurposeForm     Purpose = "form_submission"
	PurposeContact  Purpose = "contact_submission"
)

// ValidPurpose reports whether the raw value names a known flow.
func ValidPurpose(raw string) bool {
	switch Purpose(raw) {
	case PurposeProject, PurposeResearch, PurposeJournal, PurposeForm, PurposeContact:
		return true
	}
	return false
}

// PurposeForType maps the short `type` query value carried by the
// verification link to its purpose. Unknown types fall back to project.
func PurposeForType(t string) Purpose {
	switch t {
	case "research":
		return PurposeResearch
	case "journal":
		return PurposeJournal
	default:
		return PurposeProject
	}
}

// ReturnPath is the frontend form route a verified user is sent back to.
// The table is fixed, not configurable at runtime.
func (p Purpose) ReturnPath() string {
	switch p {
	case PurposeResearch:
		return "/submit-research"
	case PurposeJournal:
		return "/submit-journal"
	case PurposeForm:
		return "/forms"
	case PurposeContact:
		return "/contact"
	default:
		return "/submit-project"
	}
}

// OTPSessionStatus tracks a session through the verification state machine.
type OTPSessionStatus string

const (
	OTPStatusSent     OTPSessionStatus = "sent"
	OTPStatusVerified OTPSessionStatus = "verified"
)

// OTPSession is the server-held verification session. A session is bound
// to the email it was requested for; requesting again for the same
// email+purpose replaces it.
type OTPSession struct {
	ID                string           `json:"id"`
	Email             string           `json:"email"`
	FullName          string           `json:"full_name"`
	Purpose           Purpose          `json:"purpose"`
	CodeHash          string           `json:"code_hash"`
	Status            OTPSessionStatus `json:"status"`
	Attempts          int              `json:"attempts"`
	CreatedAt         time.Time        `json:"created_at"`
	ExpiresAt         time.Time        `json:"expires_at"`
	VerifiedAt        *time.Time       `json:"verified_at,omitempty"`
	ResendAvailableAt time.Time        `json:"resend_available_at"`
}

// VerificationRecord is the proof-of-verification payload handed from the
// verify step back to the originating form via the mailbox.
type VerificationRecord struct {
	Email      string    `json:"email"`
	SessionID  string    `json:"session_id"`
	Purpose    Purpose   `json:"purpose"`
	VerifiedAt time.Time `json:"verified_at"`
}
