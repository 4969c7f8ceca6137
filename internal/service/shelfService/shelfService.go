package shelfService

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"bookshelf_tgbot/config"
	"bookshelf_tgbot/internal/model"
	"bookshelf_tgbot/utils"

	"github.com/google/uuid"
)

type Store interface {
	Load(ctx context.Context) ([]model.Book, error)
	Save(ctx context.Context, books []model.Book) error
}

type CoverResolver interface {
	Resolve(ctx context.Context, title string, author string) (coverUrl string, err error)
}

// ShelfService owns the in-memory shelf and the current filter selection.
// Every mutation writes the whole shelf to the store first and commits to
// memory only when the write succeeds, so memory and the durable slot never
// diverge. Intents are serialized by the mutex.
type ShelfService struct {
	cfg    *config.Config
	store  Store
	covers CoverResolver

	mu          sync.Mutex
	books       []model.Book
	filter      string
	subscribers []func()
}

// New loads the shelf once from the store. A corrupted slot surfaces here
// so startup can abort instead of silently replacing the data.
func New(ctx context.Context, cfg *config.Config, store Store, covers CoverResolver) (*ShelfService, error) {
	op := "ShelfService.New"

	books, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if books == nil {
		books = []model.Book{}
	}

	slog.Info("shelf loaded", slog.String("op", op), slog.Int("books", len(books)))

	return &ShelfService{
		cfg:    cfg,
		store:  store,
		covers: covers,
		books:  books,
		filter: model.FilterAll,
	}, nil
}

// Subscribe registers fn to run after every committed mutation. Callbacks
// run synchronously after the lock is released, so they may query the
// service.
func (s *ShelfService) Subscribe(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.subscribers = append(s.subscribers, fn)
}

// notifySnapshot must be called with s.mu held; the returned closure runs
// the subscribers and is safe to invoke once the lock is released.
func (s *ShelfService) notifySnapshot() func() {
	fns := make([]func(), len(s.subscribers))
	copy(fns, s.subscribers)
	return func() {
		for _, fn := range fns {
			fn()
		}
	}
}

// Add appends a new book to the end of the shelf. Title and author are
// trimmed; if either is empty after trimming the shelf and the store stay
// untouched and ErrEmptyField is returned.
func (s *ShelfService) Add(ctx context.Context, title, author, category string) (model.Book, error) {
	op := "ShelfService.Add"
	rqID := utils.GetRequestIDFromCtx(ctx)

	title = strings.TrimSpace(title)
	author = strings.TrimSpace(author)
	if title == "" || author == "" {
		return model.Book{}, ErrEmptyField
	}

	// the cover lookup may hit the network, keep it outside the lock
	coverUrl := s.resolveCover(ctx, title, author)

	var notify func()
	defer func() {
		if notify != nil {
			notify()
		}
	}()

	s.mu.Lock()
	defer s.mu.Unlock()

	book := model.Book{
		ID:       uuid.NewString(),
		Title:    title,
		Author:   author,
		Category: category,
		CoverUrl: coverUrl,
	}

	next := make([]model.Book, 0, len(s.books)+1)
	next = append(next, s.books...)
	next = append(next, book)

	if err := s.store.Save(ctx, next); err != nil {
		slog.Error("failed to save shelf", slog.String("op", op), slog.String("rqID", rqID), slog.String("err", err.Error()))
		return model.Book{}, fmt.Errorf("%s: %w", op, err)
	}

	s.books = next
	notify = s.notifySnapshot()

	slog.Info("book added", slog.String("op", op), slog.String("rqID", rqID), slog.String("id", book.ID), slog.String("title", book.Title))

	return book, nil
}

func (s *ShelfService) resolveCover(ctx context.Context, title, author string) string {
	op := "ShelfService.resolveCover"

	if s.covers == nil {
		return s.cfg.Shelf.DefaultCover
	}

	coverUrl, err := s.covers.Resolve(ctx, title, author)
	if err != nil {
		slog.Warn("cover lookup failed, using default cover", slog.String("op", op), slog.String("err", err.Error()), slog.String("title", title))
		return s.cfg.Shelf.DefaultCover
	}
	return coverUrl
}

// Delete removes the book with the given id. An unknown id is a no-op for
// the store and returns ErrNotFound.
func (s *ShelfService) Delete(ctx context.Context, id string) error {
	op := "ShelfService.Delete"
	rqID := utils.GetRequestIDFromCtx(ctx)

	var notify func()
	defer func() {
		if notify != nil {
			notify()
		}
	}()

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, b := range s.books {
		if b.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return ErrNotFound
	}

	next := make([]model.Book, 0, len(s.books)-1)
	next = append(next, s.books[:idx]...)
	next = append(next, s.books[idx+1:]...)

	if err := s.store.Save(ctx, next); err != nil {
		slog.Error("failed to save shelf", slog.String("op", op), slog.String("rqID", rqID), slog.String("err", err.Error()))
		return fmt.Errorf("%s: %w", op, err)
	}

	s.books = next
	notify = s.notifySnapshot()

	slog.Info("book deleted", slog.String("op", op), slog.String("rqID", rqID), slog.String("id", id))

	return nil
}

// DeleteMatching removes every book whose title and author match exactly
// (case-sensitive, no trimming), preserving the order of the survivors.
// With zero matches the shelf is unchanged and the store is not written.
func (s *ShelfService) DeleteMatching(ctx context.Context, title, author string) (int, error) {
	op := "ShelfService.DeleteMatching"
	rqID := utils.GetRequestIDFromCtx(ctx)

	var notify func()
	defer func() {
		if notify != nil {
			notify()
		}
	}()

	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]model.Book, 0, len(s.books))
	for _, b := range s.books {
		if b.Title == title && b.Author == author {
			continue
		}
		next = append(next, b)
	}

	removed := len(s.books) - len(next)
	if removed == 0 {
		return 0, nil
	}

	if err := s.store.Save(ctx, next); err != nil {
		slog.Error("failed to save shelf", slog.String("op", op), slog.String("rqID", rqID), slog.String("err", err.Error()))
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	s.books = next
	notify = s.notifySnapshot()

	slog.Info("books deleted by title and author", slog.String("op", op), slog.String("rqID", rqID), slog.Int("removed", removed), slog.String("title", title))

	return removed, nil
}

// Sort reorders the shelf by title, case-insensitive, keeping equal titles
// in their current relative order. The new order is written to the store
// only when SHELF_PERSIST_SORT is on.
func (s *ShelfService) Sort(ctx context.Context, direction model.SortDirection) error {
	op := "ShelfService.Sort"
	rqID := utils.GetRequestIDFromCtx(ctx)

	if direction != model.SortAscending && direction != model.SortDescending {
		return fmt.Errorf("%s: %w: %q", op, ErrUnknownDirection, direction)
	}

	var notify func()
	defer func() {
		if notify != nil {
			notify()
		}
	}()

	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]model.Book, len(s.books))
	copy(next, s.books)

	sort.SliceStable(next, func(i, j int) bool {
		ti := strings.ToUpper(next[i].Title)
		tj := strings.ToUpper(next[j].Title)
		if direction == model.SortDescending {
			return ti > tj
		}
		return ti < tj
	})

	if s.cfg.Shelf.PersistSort {
		if err := s.store.Save(ctx, next); err != nil {
			slog.Error("failed to save shelf", slog.String("op", op), slog.String("rqID", rqID), slog.String("err", err.Error()))
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	s.books = next
	notify = s.notifySnapshot()

	return nil
}

// SetFilter changes the current filter selection. It never touches the
// books or the store.
func (s *ShelfService) SetFilter(category string) {
	var notify func()
	defer func() {
		if notify != nil {
			notify()
		}
	}()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.filter = category
	notify = s.notifySnapshot()
}

func (s *ShelfService) Filter() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.filter
}

// Visible returns the books matching the current filter in shelf order.
// The result is always a non-nil copy; an empty shelf and a filter with no
// matches both come back as the empty slice.
func (s *ShelfService) Visible() []model.Book {
	s.mu.Lock()
	defer s.mu.Unlock()

	visible := make([]model.Book, 0, len(s.books))
	for _, b := range s.books {
		if s.filter == model.FilterAll || b.Category == s.filter {
			visible = append(visible, b)
		}
	}
	return visible
}

// Books returns a copy of the whole shelf regardless of the filter.
func (s *ShelfService) Books() []model.Book {
	s.mu.Lock()
	defer s.mu.Unlock()

	books := make([]model.Book, len(s.books))
	copy(books, s.books)
	return books
}

func (s *ShelfService) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.books)
}

// Categories returns the distinct categories present on the shelf, in
// first-seen order.
func (s *ShelfService) Categories() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]struct{}, len(s.books))
	categories := make([]string, 0)
	for _, b := range s.books {
		if _, ok := seen[b.Category]; ok {
			continue
		}
		seen[b.Category] = struct{}{}
		categories = append(categories, b.Category)
	}
	return categories
}
