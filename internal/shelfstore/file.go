package shelfstore

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"bookshelf_tgbot/internal/model"
	"bookshelf_tgbot/utils"
)

// FileStore keeps the shelf in one JSON file. Writes go through a temp file
// and rename so a crashed write never leaves a half-written slot.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) Load(ctx context.Context) ([]model.Book, error) {
	op := "FileStore.Load"
	rqID := utils.GetRequestIDFromCtx(ctx)

	payload, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Info("shelf file does not exist yet", slog.String("op", op), slog.String("path", f.path))
			return []model.Book{}, nil
		}
		slog.Error("failed to read shelf file", slog.String("op", op), slog.String("rqID", rqID), slog.String("err", err.Error()), slog.String("path", f.path))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var books []model.Book
	if err = json.Unmarshal(payload, &books); err != nil {
		slog.Error("can't unmarshall shelf payload", slog.String("op", op), slog.String("rqID", rqID), slog.String("err", err.Error()), slog.String("path", f.path))
		return nil, fmt.Errorf("%s: %w: %s", op, ErrCorrupted, err)
	}

	if books == nil {
		books = []model.Book{}
	}

	return books, nil
}

func (f *FileStore) Save(ctx context.Context, books []model.Book) error {
	op := "FileStore.Save"
	rqID := utils.GetRequestIDFromCtx(ctx)

	payload, err := json.MarshalIndent(books, "", "  ")
	if err != nil {
		slog.Error("can't marshall shelf", slog.String("op", op), slog.String("rqID", rqID), slog.String("err", err.Error()))
		return fmt.Errorf("%s: %w", op, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), filepath.Base(f.path)+".tmp")
	if err != nil {
		slog.Error("failed to create temp shelf file", slog.String("op", op), slog.String("rqID", rqID), slog.String("err", err.Error()), slog.String("path", f.path))
		return fmt.Errorf("%s: %w", op, err)
	}

	if _, err = tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		slog.Error("failed to write shelf file", slog.String("op", op), slog.String("rqID", rqID), slog.String("err", err.Error()), slog.String("path", f.path))
		return fmt.Errorf("%s: %w", op, err)
	}

	if err = tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("%s: %w", op, err)
	}

	if err = os.Rename(tmp.Name(), f.path); err != nil {
		os.Remove(tmp.Name())
		slog.Error("failed to replace shelf file", slog.String("op", op), slog.String("rqID", rqID), slog.String("err", err.Error()), slog.String("path", f.path))
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
