package model

type SessionAction string

const (
	DefaultAction     SessionAction = ""
	ExpectingTitle    SessionAction = "expecting_title"
	ExpectingAuthor   SessionAction = "expecting_author"
	ExpectingCategory SessionAction = "expecting_category"
)

// Session holds per-chat conversation state for the guided /add flow.
type Session struct {
	Action        SessionAction
	PendingTitle  string
	PendingAuthor string
}
