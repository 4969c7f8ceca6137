package model

// Book is one shelf entry. ID is assigned once at creation and is the only
// field deletion keys on; Title and Author stay as the user typed them
// (trimmed), Category is one of the configured labels.
type Book struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Author   string `json:"author"`
	Category string `json:"category"`
	CoverUrl string `json:"coverUrl"`
}

// FilterAll is the sentinel filter selection matching every category.
const FilterAll = "All"

type SortDirection string

const (
	SortAscending  SortDirection = "asc"
	SortDescending SortDirection = "desc"
)
