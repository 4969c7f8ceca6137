package tgCallback

// Callback data constants. Prefixed constants carry a payload after the
// prefix (book id, category label, sort direction).
const (
	DeleteBook   = "delete_book:"
	PickCategory = "pick_category:"
	FilterBy     = "filter_by:"
	SortBy       = "sort_by:"
	ToShelfPage  = "to_shelf_page:"
	PageNumber   = "page_number"
	CancelAdd    = "cancel_add"
)
