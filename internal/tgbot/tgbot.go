package tgbot

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"bookshelf_tgbot/config"
	"bookshelf_tgbot/internal/model"
	"bookshelf_tgbot/internal/model/tg/tgCallback"
	"bookshelf_tgbot/internal/transport/telegram"
	customMW "bookshelf_tgbot/internal/transport/telegram/middleware"
	"bookshelf_tgbot/utils"

	tele "gopkg.in/telebot.v4"
	"gopkg.in/telebot.v4/middleware"
)

type Session interface {
	GetSession(ctx context.Context, chatID int64) (model.Session, error)
	SetSession(ctx context.Context, chatID int64, session model.Session) error
}

type TGBot struct {
	bot     *tele.Bot
	ctrl    *telegram.Controller
	session Session
}

func New(cfg *config.Config, ctrl *telegram.Controller, session Session) *TGBot {
	settings := tele.Settings{
		Token:  cfg.Telegram.Token,
		Poller: &tele.LongPoller{Timeout: time.Duration(cfg.Telegram.UpdTimeout) * time.Second},
	}

	b, err := tele.NewBot(settings)
	if err != nil {
		slog.Error("error while tele.NewBot", slog.String("err", err.Error()))
		panic(err)
	}

	return &TGBot{bot: b, ctrl: ctrl, session: session}
}

func (b *TGBot) Start() {
	b.bot.Use(middleware.Recover(), customMW.Logger())

	b.setupRoutes()

	go b.bot.Start()
	slog.Info("tgbot started!")
}

func (b *TGBot) Stop() {
	slog.Info("start stopping tgbot")
	b.bot.Stop()
	slog.Info("tgbot stopped")
}

func (b *TGBot) setupRoutes() {
	// commands
	b.bot.Handle("/start", b.ctrl.Start)
	b.bot.Handle("/help", b.ctrl.Help)
	b.bot.Handle("/add", b.ctrl.Add)
	b.bot.Handle("/list", b.ctrl.List)
	b.bot.Handle("/filter", b.ctrl.FilterMenu)
	b.bot.Handle("/sort", b.ctrl.SortMenu)
	b.bot.Handle("/remove", b.ctrl.Remove)
	b.bot.Handle("/export", b.ctrl.Export)

	// text: route by the current step of the guided /add flow
	b.bot.Handle(tele.OnText, func(c tele.Context) error {
		ctx := utils.CreateCtxWithRqID(c)
		rqID := utils.GetRequestIDFromCtx(ctx)
		chatSession, err := b.session.GetSession(ctx, c.Chat().ID)
		if err != nil {
			slog.Error("got error from session.GetSession", slog.String("rqID", rqID), slog.String("err", err.Error()))
			return c.Send("something went wrong...")
		}

		c.Set("session", chatSession)

		switch chatSession.Action {
		case model.ExpectingTitle:
			return b.ctrl.ProcessEnteredTitle(c)
		case model.ExpectingAuthor:
			return b.ctrl.ProcessEnteredAuthor(c)
		default:
			return b.ctrl.Help(c)
		}
	})

	// callbacks
	b.bot.Handle(tele.OnCallback, func(c tele.Context) error {
		callbackBtnText := strings.TrimPrefix(c.Callback().Data, "\f")

		switch {
		case strings.HasPrefix(callbackBtnText, tgCallback.DeleteBook):
			return b.ctrl.ProcessDeleteBook(c)
		case strings.HasPrefix(callbackBtnText, tgCallback.PickCategory):
			return b.ctrl.ProcessPickCategory(c)
		case strings.HasPrefix(callbackBtnText, tgCallback.FilterBy):
			return b.ctrl.ProcessFilterBy(c)
		case strings.HasPrefix(callbackBtnText, tgCallback.SortBy):
			return b.ctrl.ProcessSortBy(c)
		case strings.HasPrefix(callbackBtnText, tgCallback.ToShelfPage):
			return b.ctrl.ProcessToShelfPage(c)
		case callbackBtnText == tgCallback.PageNumber:
			return nil
		case callbackBtnText == tgCallback.CancelAdd:
			return b.ctrl.CancelAdd(c)
		default:
			return c.Send("unrecognized callback")
		}
	})
}
