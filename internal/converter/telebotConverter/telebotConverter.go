package telebotConverter

import (
	"fmt"
	"strconv"
	"strings"

	"bookshelf_tgbot/internal/model"
	"bookshelf_tgbot/internal/model/tg/tgCallback"

	tele "gopkg.in/telebot.v4"
)

// ShelfPage renders one page of the visible books as numbered cards with
// one delete button per card, keyed by the book id, plus prev/next
// pagination buttons carrying the page index. The page is clamped to the
// last one so stale pagination callbacks stay harmless.
func ShelfPage(books []model.Book, filter string, page, booksPerPage int) (text string, markup *tele.ReplyMarkup) {
	markup = &tele.ReplyMarkup{}
	sb := strings.Builder{}

	if booksPerPage <= 0 {
		booksPerPage = len(books)
	}

	maxPage := 0
	if len(books) > 0 {
		maxPage = (len(books) - 1) / booksPerPage
	}
	if page < 0 {
		page = 0
	}
	if page > maxPage {
		page = maxPage
	}

	from := page * booksPerPage
	to := from + booksPerPage
	if to > len(books) {
		to = len(books)
	}

	if filter == model.FilterAll {
		sb.WriteString(fmt.Sprintf("Your bookshelf (%d books)\n\n", len(books)))
	} else {
		sb.WriteString(fmt.Sprintf("Your bookshelf — %s (%d books)\n\n", filter, len(books)))
	}

	menuRows := make([]tele.Row, 0)

	for i, book := range books[from:to] {
		if i%5 == 0 {
			menuRows = append(menuRows, make(tele.Row, 0, 5))
		}

		ordinal := from + i + 1
		sb.WriteString(fmt.Sprintf("%d) %s — %s [%s]\n%s\n\n", ordinal, book.Title, book.Author, book.Category, book.CoverUrl))
		btn := markup.Data(fmt.Sprintf("🗑 %d", ordinal), tgCallback.DeleteBook+book.ID)
		menuRows[len(menuRows)-1] = append(menuRows[len(menuRows)-1], btn)
	}

	paginationBtns := make([]tele.Btn, 0)
	if page > 0 {
		paginationBtns = append(paginationBtns, markup.Data("prev", tgCallback.ToShelfPage+strconv.Itoa(page-1)))
	}
	if page > 0 || to < len(books) {
		paginationBtns = append(paginationBtns, markup.Data(fmt.Sprintf("page %d", page+1), tgCallback.PageNumber))
	}
	if to < len(books) {
		paginationBtns = append(paginationBtns, markup.Data("next", tgCallback.ToShelfPage+strconv.Itoa(page+1)))
	}
	if len(paginationBtns) > 0 {
		menuRows = append(menuRows, markup.Row(paginationBtns...))
	}

	markup.Inline(menuRows...)

	return sb.String(), markup
}

// BookCard renders one freshly added book.
func BookCard(book model.Book) string {
	return fmt.Sprintf("Added to your shelf:\n\n%s — %s [%s]\n%s", book.Title, book.Author, book.Category, book.CoverUrl)
}

// CategoryPickKeyboard is the category step of the guided /add flow.
func CategoryPickKeyboard(categories []string) (text string, markup *tele.ReplyMarkup) {
	markup = &tele.ReplyMarkup{}
	text = "pick a category"

	menuRows := make([]tele.Row, 0)
	for i, category := range categories {
		if i%3 == 0 {
			menuRows = append(menuRows, make(tele.Row, 0, 3))
		}
		btn := markup.Data(category, tgCallback.PickCategory+category)
		menuRows[len(menuRows)-1] = append(menuRows[len(menuRows)-1], btn)
	}

	cancelBtn := markup.Data("cancel", tgCallback.CancelAdd)
	menuRows = append(menuRows, markup.Row(cancelBtn))

	markup.Inline(menuRows...)

	return text, markup
}

// FilterKeyboard offers "All" plus every configured category.
func FilterKeyboard(categories []string, current string) (text string, markup *tele.ReplyMarkup) {
	markup = &tele.ReplyMarkup{}
	text = fmt.Sprintf("current filter: %s\npick a new one:", current)

	menuRows := make([]tele.Row, 0)
	menuRows = append(menuRows, markup.Row(markup.Data(model.FilterAll, tgCallback.FilterBy+model.FilterAll)))

	for i, category := range categories {
		if i%3 == 0 {
			menuRows = append(menuRows, make(tele.Row, 0, 3))
		}
		btn := markup.Data(category, tgCallback.FilterBy+category)
		menuRows[len(menuRows)-1] = append(menuRows[len(menuRows)-1], btn)
	}

	markup.Inline(menuRows...)

	return text, markup
}

// SortKeyboard offers the two sort directions.
func SortKeyboard() (text string, markup *tele.ReplyMarkup) {
	markup = &tele.ReplyMarkup{}
	text = "sort books by title:"

	ascBtn := markup.Data("A → Z", tgCallback.SortBy+string(model.SortAscending))
	descBtn := markup.Data("Z → A", tgCallback.SortBy+string(model.SortDescending))

	markup.Inline(markup.Row(ascBtn, descBtn))

	return text, markup
}

// RemovedCount renders the /remove outcome.
func RemovedCount(removed int, title, author string) string {
	if removed == 0 {
		return fmt.Sprintf("nothing matched: %s — %s", title, author)
	}
	return "removed " + strconv.Itoa(removed) + " book(s): " + title + " — " + author
}
