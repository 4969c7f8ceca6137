package mailer

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"time"

	"bookshelf_tgbot/config"
	"bookshelf_tgbot/internal/model"
	"bookshelf_tgbot/utils"

	mail "github.com/wneessen/go-mail"
)

type Mailer struct {
	cfg *config.Config
}

func New(cfg *config.Config) *Mailer {
	return &Mailer{cfg: cfg}
}

// SendShelf emails the shelf as a CSV attachment.
func (m *Mailer) SendShelf(ctx context.Context, to string, books []model.Book) error {
	op := "Mailer.SendShelf"
	rqID := utils.GetRequestIDFromCtx(ctx)
	slog.Info("SendShelf start", slog.String("rqID", rqID), slog.String("op", op), slog.String("to", to), slog.Int("books", len(books)))

	attachment, err := shelfCsv(books)
	if err != nil {
		slog.Error("failed to build csv", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return fmt.Errorf("%s: %w", op, err)
	}

	msg := mail.NewMsg()
	if err = msg.From(m.cfg.Mail.Address); err != nil {
		slog.Error("failed to set From address", slog.String("op", op), slog.String("from", m.cfg.Mail.Address), slog.String("err", err.Error()))
		return err
	}
	if err = msg.To(to); err != nil {
		slog.Error("failed to set To address", slog.String("op", op), slog.String("to", to), slog.String("err", err.Error()))
		return err
	}
	msg.Subject("Your bookshelf")
	msg.SetBodyString(mail.TypeTextPlain, fmt.Sprintf("Attached: your bookshelf with %d books.", len(books)))
	if err = msg.AttachReader("bookshelf.csv", bytes.NewReader(attachment)); err != nil {
		slog.Error("failed to attach csv", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return fmt.Errorf("%s: %w", op, err)
	}

	c, err := mail.NewClient(
		m.cfg.Mail.Host,
		mail.WithPort(m.cfg.Mail.Port),
		mail.WithSMTPAuth(mail.SMTPAuthLogin),
		mail.WithUsername(m.cfg.Mail.Address),
		mail.WithPassword(m.cfg.Mail.Password),
		mail.WithTimeout(120*time.Second),
	)
	if err != nil {
		slog.Error("failed to create mail client", slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	if err = c.DialAndSendWithContext(ctx, msg); err != nil {
		slog.Error("failed to send mail", slog.String("rqID", rqID), slog.String("op", op), slog.String("to", to), slog.String("err", err.Error()))
		return fmt.Errorf("%s: error while dialing smtp: %w", op, err)
	}

	slog.Info("SendShelf finished", slog.String("rqID", rqID), slog.String("op", op), slog.String("to", to))

	return nil
}

func shelfCsv(books []model.Book) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)

	if err := w.Write([]string{"title", "author", "category", "cover_url"}); err != nil {
		return nil, err
	}
	for _, b := range books {
		if err := w.Write([]string{b.Title, b.Author, b.Category, b.CoverUrl}); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
