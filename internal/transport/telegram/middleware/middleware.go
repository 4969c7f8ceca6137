package middleware

import (
	"log/slog"
	"time"

	tele "gopkg.in/telebot.v4"
)

func Logger() tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			start := time.Now()

			err := next(c)

			attrs := []any{
				slog.Int64("chatID", c.Chat().ID),
				slog.String("text", c.Text()),
				slog.String("took", time.Since(start).String()),
			}
			if err != nil {
				attrs = append(attrs, slog.String("err", err.Error()))
				slog.Error("update failed", attrs...)
				return err
			}

			slog.Info("update handled", attrs...)
			return nil
		}
	}
}
