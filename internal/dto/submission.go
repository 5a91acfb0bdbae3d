package dto

// ProjectSubmissionRequest is bound from multipart form data. The members
// field arrives as a JSON-encoded array string; thumbnail and report_file
// binary parts are handled separately by the handler.
type ProjectSubmissionRequest struct {
	Title            string `form:"title" binding:"required"`
	Abstract         string `form:"abstract" binding:"required"`
	Description      string `form:"description" binding:"required"`
	ProjectType      string `form:"project_type" binding:"required"`
	SupervisorName   string `form:"supervisor_name" binding:"required"`
	SupervisorEmail  string `form:"supervisor_email"`
	StartDate        string `form:"start_date"`
	EndDate          string `form:"end_date"`
	AcademicYear     string `form:"academic_year"`
	GithubURL        string `form:"github_url"`
	DemoURL          string `form:"demo_url"`
	TechnologiesUsed string `form:"technologies_used"`
	SubmittedByName  string `form:"submitted_by_name" binding:"required"`
	SubmittedByEmail string `form:"submitted_by_email" binding:"required,email"`
	Department       string `form:"department" binding:"required"`
	Members          string `form:"members" binding:"required"`
	OTPSession       string `form:"otp_session" binding:"required"`
}

// ParticipantInput is one research team row. Rows after the first missing
// a full name are dropped at submit time rather than rejected.
type ParticipantInput struct {
	FullName string `json:"full_name"`
	Role     string `json:"role"`
	Email    string `json:"email"`
}

// ResearchSubmissionRequest is the JSON body for research intake.
type ResearchSubmissionRequest struct {
	Title                 string             `json:"title" binding:"required"`
	Abstract              string             `json:"abstract" binding:"required"`
	Description           string             `json:"description" binding:"required"`
	ResearchType          string             `json:"research_type" binding:"required"`
	Status                string             `json:"status" binding:"required"`
	PrincipalInvestigator string             `json:"principal_investigator" binding:"required"`
	PIEmail               string             `json:"pi_email" binding:"required,email"`
	StartDate             string             `json:"start_date"`
	EndDate               string             `json:"end_date"`
	FundingAgency         string             `json:"funding_agency"`
	FundingAmount         string             `json:"funding_amount"`
	Keywords              string             `json:"keywords"`
	Methodology           string             `json:"methodology"`
	ExpectedOutcomes      string             `json:"expected_outcomes"`
	PublicationsURL       string             `json:"publications_url"`
	ProjectURL            string             `json:"project_url"`
	GithubURL             string             `json:"github_url"`
	SubmittedByName       string             `json:"submitted_by_name" binding:"required"`
	SubmittedByEmail      string             `json:"submitted_by_email" binding:"required,email"`
	Department            string             `json:"department" binding:"required"`
	Participants          []ParticipantInput `json:"participants" binding:"required,min=1"`
	OTPSession            string             `json:"otp_session" binding:"required"`
}

// AuthorInput is one journal author row.
type AuthorInput struct {
	FullName    string `json:"full_name"`
	Affiliation string `json:"affiliation"`
	Email       string `json:"email"`
}

// JournalSubmissionRequest is the JSON body for journal article intake.
type JournalSubmissionRequest struct {
	Title            string        `json:"title" binding:"required"`
	Genre            string        `json:"genre" binding:"required"`
	Abstract         string        `json:"abstract" binding:"required"`
	Keywords         string        `json:"keywords"`
	Discipline       string        `json:"discipline"`
	Year             string        `json:"year"`
	Volume           string        `json:"volume"`
	Number           string        `json:"number"`
	Pages            string        `json:"pages"`
	SubmittedByName  string        `json:"submitted_by_name" binding:"required"`
	SubmittedByEmail string        `json:"submitted_by_email" binding:"required,email"`
	Department       string        `json:"department" binding:"required"`
	Authors          []AuthorInput `json:"authors" binding:"required,min=1"`
	OTPSession       string        `json:"otp_session" binding:"required"`
}

// FormSubmissionRequest carries a dynamic registration form's answers.
type FormSubmissionRequest struct {
	FormSlug         string                 `json:"form_slug" binding:"required"`
	Responses        map[string]interface{} `json:"responses" binding:"required"`
	SubmittedByName  string                 `json:"submitted_by_name" binding:"required"`
	SubmittedByEmail string                 `json:"submitted_by_email" binding:"required,email"`
	OTPSession       string                 `json:"otp_session" binding:"required"`
}

// ContactRequest is the verified contact-form payload.
type ContactRequest struct {
	Name       string `json:"name" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Subject    string `json:"subject" binding:"required"`
	Message    string `json:"message" binding:"required"`
	OTPSession string `json:"otp_session" binding:"required"`
}

// SubmissionReceipt acknowledges an accepted submission.
type SubmissionReceipt struct {
	ID          string `json:"id"`
	Status      string `json:"status"`
	SubmittedAt string `json:"submitted_at"`
}
