package shelfstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"bookshelf_tgbot/internal/model"
	"bookshelf_tgbot/utils"

	"github.com/jmoiron/sqlx"
)

type PostgresStore struct {
	db   *sqlx.DB
	slot string
}

func NewPostgresStore(db *sqlx.DB, slot string) *PostgresStore {
	return &PostgresStore{db: db, slot: slot}
}

func (p *PostgresStore) Load(ctx context.Context) ([]model.Book, error) {
	op := "PostgresStore.Load"
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `SELECT payload FROM shelves WHERE slot = $1`

	var payload []byte
	err := p.db.QueryRowxContext(ctx, query, p.slot).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			slog.Info("shelf slot is empty", slog.String("op", op), slog.String("slot", p.slot))
			return []model.Book{}, nil
		}
		slog.Error("failed to load shelf", slog.String("op", op), slog.String("rqID", rqID), slog.String("err", err.Error()), slog.String("slot", p.slot))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var books []model.Book
	if err = json.Unmarshal(payload, &books); err != nil {
		slog.Error("can't unmarshall shelf payload", slog.String("op", op), slog.String("rqID", rqID), slog.String("err", err.Error()), slog.String("slot", p.slot))
		return nil, fmt.Errorf("%s: %w: %s", op, ErrCorrupted, err)
	}

	if books == nil {
		books = []model.Book{}
	}

	return books, nil
}

func (p *PostgresStore) Save(ctx context.Context, books []model.Book) error {
	op := "PostgresStore.Save"
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `INSERT INTO shelves (slot, payload, updated_at) VALUES ($1, $2, now())
		ON CONFLICT(slot) DO UPDATE SET payload = EXCLUDED.payload, updated_at = now();`

	payload, err := json.Marshal(books)
	if err != nil {
		slog.Error("can't marshall shelf", slog.String("op", op), slog.String("rqID", rqID), slog.String("err", err.Error()))
		return fmt.Errorf("%s: %w", op, err)
	}

	if _, err = p.db.ExecContext(ctx, query, p.slot, payload); err != nil {
		slog.Error("failed to save shelf", slog.String("op", op), slog.String("rqID", rqID), slog.String("err", err.Error()), slog.String("slot", p.slot))
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
