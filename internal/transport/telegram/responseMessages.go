package telegram

const (
	internalErrMsg     string = "something went wrong..."
	welcomeMsg         string = "Welcome! I keep your personal bookshelf. Send /add to put a book on it, /list to see your shelf."
	helpMsg            string = "Commands:\n/add — add a book (or one-shot: /add Title; Author; Category)\n/list — show the shelf with delete buttons\n/filter — show only one category\n/sort — sort the shelf by title\n/remove Title; Author — remove every exact match\n/export — email the shelf as CSV"
	enterTitleMsg      string = "enter the book title:"
	enterAuthorMsg     string = "enter the author:"
	emptyFieldMsg      string = "title and author must not be empty, try again with /add"
	shelfEmptyMsg      string = "your shelf is empty, add a book with /add"
	noBooksForFilter   string = "no books match this filter"
	bookAlreadyGoneMsg string = "this book is already gone, refresh with /list"
	addCancelledMsg    string = "ok, nothing added"
	removeUsageMsg     string = "usage: /remove Title; Author"
	addUsageMsg        string = "usage: /add Title; Author; Category (or just /add for the guided flow)"
	exportNotSetUpMsg  string = "export email is not configured"
	exportStartedMsg   string = "sending your shelf by email..."
	exportDoneMsg      string = "shelf sent"
)
