package models

import "time"

// SubmissionStatus is the review state of an accepted submission.
type SubmissionStatus string

const (
	SubmissionPending  SubmissionStatus = "pending"
	SubmissionApproved SubmissionStatus = "approved"
	SubmissionRejected SubmissionStatus = "rejected"
)

// ProjectMember is a student on a submitted project team.
type ProjectMember struct {
	FullName   string `json:"full_name"`
	RollNumber string `json:"roll_number,omitempty"`
	Email      string `json:"email,omitempty"`
}

// ProjectSubmission is a student project submitted for the department
// showcase. Thumbnail and report paths reference local upload storage.
type ProjectSubmission struct {
	ID               string           `db:"id" json:"id"`
	Title            string           `db:"title" json:"title"`
	Abstract         string           `db:"abstract" json:"abstract"`
	Description      string           `db:"description" json:"description"`
	ProjectType      string           `db:"project_type" json:"project_type"`
	SupervisorName   string           `db:"supervisor_name" json:"supervisor_name"`
	SupervisorEmail  string           `db:"supervisor_email" json:"supervisor_email,omitempty"`
	StartDate        string           `db:"start_date" json:"start_date,omitempty"`
	EndDate          string           `db:"end_date" json:"end_date,omitempty"`
	AcademicYear     string           `db:"academic_year" json:"academic_year,omitempty"`
	GithubURL        string           `db:"github_url" json:"github_url,omitempty"`
	DemoURL          string           `db:"demo_url" json:"demo_url,omitempty"`
	TechnologiesUsed string           `db:"technologies_used" json:"technologies_used,omitempty"`
	SubmittedByName  string           `db:"submitted_by_name" json:"submitted_by_name"`
	SubmittedByEmail string           `db:"submitted_by_email" json:"submitted_by_email"`
	Department       string           `db:"department" json:"department"`
	MembersJSON      string           `db:"members" json:"-"`
	Members          []ProjectMember  `db:"-" json:"members"`
	ThumbnailPath    string           `db:"thumbnail_path" json:"thumbnail_path,omitempty"`
	ReportPath       string           `db:"report_path" json:"report_path,omitempty"`
	OTPSessionID     string           `db:"otp_session_id" json:"-"`
	Status           SubmissionStatus `db:"status" json:"status"`
	CreatedAt        time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time        `db:"updated_at" json:"updated_at"`
}

// ResearchParticipant is a member of a submitted research effort.
type ResearchParticipant struct {
	FullName string `json:"full_name"`
	Role     string `json:"role,omitempty"`
	Email    string `json:"email,omitempty"`
}

// ResearchSubmission is faculty or student research submitted for listing.
type ResearchSubmission struct {
	ID                    string                `db:"id" json:"id"`
	Title                 string                `db:"title" json:"title"`
	Abstract              string                `db:"abstract" json:"abstract"`
	Description           string                `db:"description" json:"description"`
	ResearchType          string                `db:"research_type" json:"research_type"`
	ResearchStatus        string                `db:"research_status" json:"status"`
	PrincipalInvestigator string                `db:"principal_investigator" json:"principal_investigator"`
	PIEmail               string                `db:"pi_email" json:"pi_email"`
	StartDate             string                `db:"start_date" json:"start_date,omitempty"`
	EndDate               string                `db:"end_date" json:"end_date,omitempty"`
	FundingAgency         string                `db:"funding_agency" json:"funding_agency,omitempty"`
	FundingAmount         string                `db:"funding_amount" json:"funding_amount,omitempty"`
	Keywords              string                `db:"keywords" json:"keywords,omitempty"`
	Methodology           string                `db:"methodology" json:"methodology,omitempty"`
	ExpectedOutcomes      string                `db:"expected_outcomes" json:"expected_outcomes,omitempty"`
	PublicationsURL       string                `db:"publications_url" json:"publications_url,omitempty"`
	ProjectURL            string                `db:"project_url" json:"project_url,omitempty"`
	GithubURL             string                `db:"github_url" json:"github_url,omitempty"`
	SubmittedByName       string                `db:"submitted_by_name" json:"submitted_by_name"`
	SubmittedByEmail      string                `db:"submitted_by_email" json:"submitted_by_email"`
	Department            string                `db:"department" json:"department"`
	ParticipantsJSON      string                `db:"participants" json:"-"`
	Participants          []ResearchParticipant `db:"-" json:"participants"`
	OTPSessionID          string                `db:"otp_session_id" json:"-"`
	Status                SubmissionStatus      `db:"status" json:"status_review"`
	CreatedAt             time.Time             `db:"created_at" json:"created_at"`
	UpdatedAt             time.Time             `db:"updated_at" json:"updated_at"`
}

// JournalAuthor is a listed author on a journal article submission.
type JournalAuthor struct {
	FullName    string `json:"full_name"`
	Affiliation string `json:"affiliation,omitempty"`
	Email       string `json:"email,omitempty"`
}

// JournalSubmission is an article submitted to the department journal.
type JournalSubmission struct {
	ID               string           `db:"id" json:"id"`
	Title            string           `db:"title" json:"title"`
	Genre            string           `db:"genre" json:"genre"`
	Abstract         string           `db:"abstract" json:"abstract"`
	Keywords         string           `db:"keywords" json:"keywords,omitempty"`
	Discipline       string           `db:"discipline" json:"discipline,omitempty"`
	Year             string           `db:"year" json:"year,omitempty"`
	Volume           string           `db:"volume" json:"volume,omitempty"`
	Number           string           `db:"number" json:"number,omitempty"`
	Pages            string           `db:"pages" json:"pages,omitempty"`
	SubmittedByName  string           `db:"submitted_by_name" json:"submitted_by_name"`
	SubmittedByEmail string           `db:"submitted_by_email" json:"submitted_by_email"`
	Department       string           `db:"department" json:"department"`
	AuthorsJSON      string           `db:"authors" json:"-"`
	Authors          []JournalAuthor  `db:"-" json:"authors"`
	OTPSessionID     string           `db:"otp_session_id" json:"-"`
	Status           SubmissionStatus `db:"status" json:"status"`
	CreatedAt        time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time        `db:"updated_at" json:"updated_at"`
}

// FormResponse is a dynamic registration form submission.
type FormResponse struct {
	ID               string    `db:"id" json:"id"`
	FormSlug         string    `db:"form_slug" json:"form_slug"`
	ResponsesJSON    string    `db:"responses" json:"-"`
	SubmittedByName  string    `db:"submitted_by_name" json:"submitted_by_name"`
	SubmittedByEmail string    `db:"submitted_by_email" json:"submitted_by_email"`
	OTPSessionID     string    `db:"otp_session_id" json:"-"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}

// ContactMessage is a verified contact-form message relayed to the
// department inbox and kept for audit.
type ContactMessage struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	Subject      string    `db:"subject" json:"subject"`
	Message      string    `db:"message" json:"message"`
	OTPSessionID string    `db:"otp_session_id" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
