package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"bookshelf_tgbot/config"
	"bookshelf_tgbot/internal/converter/telebotConverter"
	"bookshelf_tgbot/internal/model"
	"bookshelf_tgbot/internal/model/tg/tgCallback"
	"bookshelf_tgbot/internal/service/shelfService"
	"bookshelf_tgbot/utils"

	tele "gopkg.in/telebot.v4"
)

type ShelfService interface {
	Add(ctx context.Context, title, author, category string) (model.Book, error)
	Delete(ctx context.Context, id string) error
	DeleteMatching(ctx context.Context, title, author string) (removed int, err error)
	Sort(ctx context.Context, direction model.SortDirection) error
	SetFilter(category string)
	Filter() string
	Visible() []model.Book
	Books() []model.Book
	Len() int
}

type Session interface {
	GetSession(ctx context.Context, chatID int64) (model.Session, error)
	SetSession(ctx context.Context, chatID int64, session model.Session) error
	ClearSession(ctx context.Context, chatID int64) error
}

type Mailer interface {
	SendShelf(ctx context.Context, to string, books []model.Book) error
}

type Controller struct {
	cfg     *config.Config
	shelf   ShelfService
	session Session
	mailer  Mailer
}

func NewController(cfg *config.Config, shelf ShelfService, session Session, mailer Mailer) *Controller {
	return &Controller{
		cfg:     cfg,
		shelf:   shelf,
		session: session,
		mailer:  mailer,
	}
}

func (ctrl *Controller) getSessionFromTeleCtxOrStorage(ctx context.Context, c tele.Context) (model.Session, error) {
	op := "Controller.getSessionFromTeleCtxOrStorage"
	chatSession, ok := c.Get("session").(model.Session)
	if ok {
		return chatSession, nil
	}

	rqID := utils.GetRequestIDFromCtx(ctx)
	chatSession, err := ctrl.session.GetSession(ctx, c.Chat().ID)
	if err != nil {
		slog.Error("got error from session.GetSession", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.Session{}, err
	}
	return chatSession, nil
}

func (ctrl *Controller) sendAutoDeleteMsg(c tele.Context, text string) error {
	msg, err := c.Bot().Send(c.Chat(), text)
	if err != nil {
		return err
	}

	time.AfterFunc(5*time.Second, func() {
		c.Bot().Delete(msg)
	})
	return nil
}

func (ctrl *Controller) Start(c tele.Context) error {
	return c.Reply(welcomeMsg)
}

func (ctrl *Controller) Help(c tele.Context) error {
	return c.Reply(helpMsg)
}

// Add starts the guided flow, or adds in one shot when the payload looks
// like "Title; Author; Category".
func (ctrl *Controller) Add(c tele.Context) error {
	op := "Controller.Add"
	ctx := utils.CreateCtxWithRqID(c)
	rqID := utils.GetRequestIDFromCtx(ctx)

	payload := strings.TrimSpace(c.Message().Payload)
	if payload != "" {
		parts := strings.Split(payload, ";")
		if len(parts) != 3 {
			return c.Send(addUsageMsg)
		}

		book, err := ctrl.shelf.Add(ctx, parts[0], parts[1], strings.TrimSpace(parts[2]))
		if err != nil {
			if errors.Is(err, shelfService.ErrEmptyField) {
				return c.Send(emptyFieldMsg)
			}
			slog.Error("got error from shelf.Add", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
			return ctrl.sendAutoDeleteMsg(c, internalErrMsg)
		}

		return c.Send(telebotConverter.BookCard(book))
	}

	err := ctrl.session.SetSession(ctx, c.Chat().ID, model.Session{Action: model.ExpectingTitle})
	if err != nil {
		slog.Error("got error from session.SetSession", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return ctrl.sendAutoDeleteMsg(c, internalErrMsg)
	}

	return c.Send(enterTitleMsg)
}

func (ctrl *Controller) ProcessEnteredTitle(c tele.Context) error {
	op := "Controller.ProcessEnteredTitle"
	ctx := utils.CreateCtxWithRqID(c)
	rqID := utils.GetRequestIDFromCtx(ctx)

	chatSession, err := ctrl.getSessionFromTeleCtxOrStorage(ctx, c)
	if err != nil {
		return ctrl.sendAutoDeleteMsg(c, internalErrMsg)
	}

	chatSession.PendingTitle = c.Message().Text
	chatSession.Action = model.ExpectingAuthor
	if err = ctrl.session.SetSession(ctx, c.Chat().ID, chatSession); err != nil {
		slog.Error("got error from session.SetSession", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return ctrl.sendAutoDeleteMsg(c, internalErrMsg)
	}

	return c.Send(enterAuthorMsg)
}

func (ctrl *Controller) ProcessEnteredAuthor(c tele.Context) error {
	op := "Controller.ProcessEnteredAuthor"
	ctx := utils.CreateCtxWithRqID(c)
	rqID := utils.GetRequestIDFromCtx(ctx)

	chatSession, err := ctrl.getSessionFromTeleCtxOrStorage(ctx, c)
	if err != nil {
		return ctrl.sendAutoDeleteMsg(c, internalErrMsg)
	}

	chatSession.PendingAuthor = c.Message().Text
	chatSession.Action = model.ExpectingCategory
	if err = ctrl.session.SetSession(ctx, c.Chat().ID, chatSession); err != nil {
		slog.Error("got error from session.SetSession", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return ctrl.sendAutoDeleteMsg(c, internalErrMsg)
	}

	return c.Send(telebotConverter.CategoryPickKeyboard(ctrl.cfg.Shelf.Categories))
}

func (ctrl *Controller) ProcessPickCategory(c tele.Context) error {
	op := "Controller.ProcessPickCategory"
	ctx := utils.CreateCtxWithRqID(c)
	rqID := utils.GetRequestIDFromCtx(ctx)

	chatSession, err := ctrl.getSessionFromTeleCtxOrStorage(ctx, c)
	if err != nil {
		return ctrl.sendAutoDeleteMsg(c, internalErrMsg)
	}

	category := strings.TrimPrefix(strings.TrimPrefix(c.Callback().Data, "\f"), tgCallback.PickCategory)

	book, err := ctrl.shelf.Add(ctx, chatSession.PendingTitle, chatSession.PendingAuthor, category)
	if err != nil {
		if errors.Is(err, shelfService.ErrEmptyField) {
			_ = ctrl.session.ClearSession(ctx, c.Chat().ID)
			return c.Edit(emptyFieldMsg)
		}
		slog.Error("got error from shelf.Add", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return ctrl.sendAutoDeleteMsg(c, internalErrMsg)
	}

	if err = ctrl.session.ClearSession(ctx, c.Chat().ID); err != nil {
		slog.Error("got error from session.ClearSession", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
	}

	return c.Edit(telebotConverter.BookCard(book))
}

func (ctrl *Controller) CancelAdd(c tele.Context) error {
	op := "Controller.CancelAdd"
	ctx := utils.CreateCtxWithRqID(c)
	rqID := utils.GetRequestIDFromCtx(ctx)

	if err := ctrl.session.ClearSession(ctx, c.Chat().ID); err != nil {
		slog.Error("got error from session.ClearSession", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
	}

	return c.Edit(addCancelledMsg)
}

func (ctrl *Controller) List(c tele.Context) error {
	text, markup, empty := ctrl.renderShelf(0)
	if empty != "" {
		return c.Send(empty)
	}
	return c.Send(text, markup)
}

// renderShelf builds one page of the current visible sequence; the third
// return value is a non-empty message when there is nothing to render, so
// the empty shelf and the empty filter result stay distinguishable for
// the user.
func (ctrl *Controller) renderShelf(page int) (text string, markup *tele.ReplyMarkup, emptyMsg string) {
	books := ctrl.shelf.Visible()
	if len(books) == 0 {
		if ctrl.shelf.Len() == 0 {
			return "", nil, shelfEmptyMsg
		}
		return "", nil, noBooksForFilter
	}

	text, markup = telebotConverter.ShelfPage(books, ctrl.shelf.Filter(), page, ctrl.cfg.Shelf.BooksPerPage)
	return text, markup, ""
}

func (ctrl *Controller) ProcessToShelfPage(c tele.Context) error {
	op := "Controller.ProcessToShelfPage"
	ctx := utils.CreateCtxWithRqID(c)
	rqID := utils.GetRequestIDFromCtx(ctx)

	pageStr := strings.TrimPrefix(strings.TrimPrefix(c.Callback().Data, "\f"), tgCallback.ToShelfPage)
	page, err := strconv.Atoi(pageStr)
	if err != nil {
		slog.Error(
			"error while converting page from callback",
			slog.String("rqID", rqID),
			slog.String("op", op),
			slog.String("err", err.Error()),
			slog.String("pageStr", pageStr),
		)
		return ctrl.sendAutoDeleteMsg(c, internalErrMsg)
	}

	text, markup, empty := ctrl.renderShelf(page)
	if empty != "" {
		return c.Edit(empty)
	}
	return c.Edit(text, markup)
}

func (ctrl *Controller) ProcessDeleteBook(c tele.Context) error {
	op := "Controller.ProcessDeleteBook"
	ctx := utils.CreateCtxWithRqID(c)
	rqID := utils.GetRequestIDFromCtx(ctx)

	id := strings.TrimPrefix(strings.TrimPrefix(c.Callback().Data, "\f"), tgCallback.DeleteBook)

	err := ctrl.shelf.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, shelfService.ErrNotFound) {
			return ctrl.sendAutoDeleteMsg(c, bookAlreadyGoneMsg)
		}
		slog.Error("got error from shelf.Delete", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return ctrl.sendAutoDeleteMsg(c, internalErrMsg)
	}

	text, markup, empty := ctrl.renderShelf(0)
	if empty != "" {
		return c.Edit(empty)
	}
	return c.Edit(text, markup)
}

func (ctrl *Controller) Remove(c tele.Context) error {
	op := "Controller.Remove"
	ctx := utils.CreateCtxWithRqID(c)
	rqID := utils.GetRequestIDFromCtx(ctx)

	parts := strings.Split(c.Message().Payload, ";")
	if len(parts) != 2 {
		return c.Send(removeUsageMsg)
	}

	title := strings.TrimSpace(parts[0])
	author := strings.TrimSpace(parts[1])

	removed, err := ctrl.shelf.DeleteMatching(ctx, title, author)
	if err != nil {
		slog.Error("got error from shelf.DeleteMatching", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return ctrl.sendAutoDeleteMsg(c, internalErrMsg)
	}

	return c.Send(telebotConverter.RemovedCount(removed, title, author))
}

func (ctrl *Controller) FilterMenu(c tele.Context) error {
	return c.Send(telebotConverter.FilterKeyboard(ctrl.cfg.Shelf.Categories, ctrl.shelf.Filter()))
}

func (ctrl *Controller) ProcessFilterBy(c tele.Context) error {
	category := strings.TrimPrefix(strings.TrimPrefix(c.Callback().Data, "\f"), tgCallback.FilterBy)

	ctrl.shelf.SetFilter(category)

	text, markup, empty := ctrl.renderShelf(0)
	if empty != "" {
		return c.Edit(empty)
	}
	return c.Edit(text, markup)
}

func (ctrl *Controller) SortMenu(c tele.Context) error {
	return c.Send(telebotConverter.SortKeyboard())
}

func (ctrl *Controller) ProcessSortBy(c tele.Context) error {
	op := "Controller.ProcessSortBy"
	ctx := utils.CreateCtxWithRqID(c)
	rqID := utils.GetRequestIDFromCtx(ctx)

	direction := model.SortDirection(strings.TrimPrefix(strings.TrimPrefix(c.Callback().Data, "\f"), tgCallback.SortBy))

	if err := ctrl.shelf.Sort(ctx, direction); err != nil {
		slog.Error("got error from shelf.Sort", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return ctrl.sendAutoDeleteMsg(c, internalErrMsg)
	}

	text, markup, empty := ctrl.renderShelf(0)
	if empty != "" {
		return c.Edit(empty)
	}
	return c.Edit(text, markup)
}

func (ctrl *Controller) Export(c tele.Context) error {
	op := "Controller.Export"
	ctx := utils.CreateCtxWithRqID(c)
	rqID := utils.GetRequestIDFromCtx(ctx)

	if ctrl.cfg.Mail.Host == "" || ctrl.cfg.Mail.ExportTo == "" {
		return c.Send(exportNotSetUpMsg)
	}

	if err := c.Send(exportStartedMsg); err != nil {
		return err
	}

	if err := ctrl.mailer.SendShelf(ctx, ctrl.cfg.Mail.ExportTo, ctrl.shelf.Books()); err != nil {
		slog.Error("got error from mailer.SendShelf", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return ctrl.sendAutoDeleteMsg(c, internalErrMsg)
	}

	return c.Send(fmt.Sprintf("%s (%d books)", exportDoneMsg, ctrl.shelf.Len()))
}
