package dto

// AlumniFilter narrows the grouped alumni listing.
type AlumniFilter struct {
	Year    int    `form:"year"`
	Program string `form:"program"`
}
