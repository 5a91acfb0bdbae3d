package models

// Pagination mirrors the upstream CMS paging contract.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}

// departmentSlugs maps short department codes used in CMS payloads to the
// site slugs the frontend routes on.
var departmentSlugs = map[string]string{
	"DOECE": "electronics-computer",
	"DOCE":  "civil",
	"DOME":  "mechanical",
	"DOAS":  "applied-science",
	"DARCH": "architecture",
	"DOIE":  "industrial",
	"DOAME": "automobile-mechanical",
}

// DepartmentSlug resolves a department code to its site slug. Unknown
// codes return the empty string.
func DepartmentSlug(code string) string {
	return departmentSlugs[code]
}

// AlumniRecord is the subset of the CMS alumni payload the grouping
// transform relies on.
type AlumniRecord struct {
	FullName       string `json:"full_name"`
	Program        string `json:"program"`
	GraduationYear int    `json:"graduation_year"`
	Position       string `json:"position,omitempty"`
	Organization   string `json:"organization,omitempty"`
	PhotoURL       string `json:"photo_url,omitempty"`
}

// AlumniYearGroup is one graduation-year bucket, alumni grouped by program.
type AlumniYearGroup struct {
	Year     int                       `json:"year"`
	Programs map[string][]AlumniRecord `json:"programs"`
}

// Subject is a program curriculum entry.
type Subject struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Semester int    `json:"semester"`
	Credits  int    `json:"credits,omitempty"`
	Elective bool   `json:"elective,omitempty"`
}

// SemesterGroup is one semester's worth of subjects.
type SemesterGroup struct {
	Semester int       `json:"semester"`
	Subjects []Subject `json:"subjects"`
}
