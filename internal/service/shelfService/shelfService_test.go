package shelfService

import (
	"context"
	"errors"
	"testing"
	"time"

	"bookshelf_tgbot/config"
	"bookshelf_tgbot/internal/model"
	"bookshelf_tgbot/internal/service/shelfService/mocks"
	"bookshelf_tgbot/internal/shelfstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

const defaultCover = "https://covers.example.com/default.jpg"

type shelfServiceSuite struct {
	suite.Suite

	mockCtrl *gomock.Controller
	cfg      *config.Config
	store    *mocks.MockStore
	covers   *mocks.MockCoverResolver
}

func TestShelfServiceSuite(t *testing.T) {
	suite.Run(t, new(shelfServiceSuite))
}

func (s *shelfServiceSuite) SetupSuite() {
	s.cfg = &config.Config{
		Shelf: config.Shelf{
			DefaultCover: defaultCover,
			PersistSort:  true,
		},
	}
	s.mockCtrl = gomock.NewController(s.T())
}

func (s *shelfServiceSuite) SetupTest() {
	s.store = mocks.NewMockStore(s.mockCtrl)
	s.covers = mocks.NewMockCoverResolver(s.mockCtrl)
}

func (s *shelfServiceSuite) newService(books []model.Book) *ShelfService {
	s.store.EXPECT().
		Load(gomock.Any()).
		Return(books, nil)

	service, err := New(context.Background(), s.cfg, s.store, nil)
	assert.Nil(s.T(), err)
	return service
}

func shelf(titles ...[3]string) []model.Book {
	books := make([]model.Book, 0, len(titles))
	for i, t := range titles {
		books = append(books, model.Book{
			ID:       string(rune('a' + i)),
			Title:    t[0],
			Author:   t[1],
			Category: t[2],
			CoverUrl: defaultCover,
		})
	}
	return books
}

func (s *shelfServiceSuite) Test_New_CorruptedStore() {
	expectedErr := shelfstore.ErrCorrupted

	s.store.EXPECT().
		Load(gomock.Any()).
		Return(nil, expectedErr)

	service, err := New(context.Background(), s.cfg, s.store, nil)

	assert.Nil(s.T(), service)
	assert.ErrorIs(s.T(), err, expectedErr)
}

func (s *shelfServiceSuite) Test_Add_Success() {
	service := s.newService(shelf([3]string{"Dune", "Frank Herbert", "Fiction"}))

	var saved []model.Book
	s.store.EXPECT().
		Save(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, books []model.Book) error {
			saved = books
			return nil
		})

	book, err := service.Add(context.Background(), "  Atomic Habits ", " James Clear ", "Non-Fiction")

	assert.Nil(s.T(), err)
	assert.Equal(s.T(), "Atomic Habits", book.Title)
	assert.Equal(s.T(), "James Clear", book.Author)
	assert.Equal(s.T(), "Non-Fiction", book.Category)
	assert.Equal(s.T(), defaultCover, book.CoverUrl)
	assert.NotEmpty(s.T(), book.ID)

	assert.Equal(s.T(), 2, service.Len())
	assert.Equal(s.T(), 2, len(saved))
	assert.Equal(s.T(), book, saved[1])
}

func (s *shelfServiceSuite) Test_Add_EmptyTitle() {
	service := s.newService(shelf([3]string{"Dune", "Frank Herbert", "Fiction"}))

	_, err := service.Add(context.Background(), "   ", "James Clear", "Non-Fiction")

	assert.ErrorIs(s.T(), err, ErrEmptyField)
	assert.Equal(s.T(), 1, service.Len())
}

func (s *shelfServiceSuite) Test_Add_EmptyAuthor() {
	service := s.newService(shelf())

	_, err := service.Add(context.Background(), "Dune", "\t\n", "Fiction")

	assert.ErrorIs(s.T(), err, ErrEmptyField)
	assert.Equal(s.T(), 0, service.Len())
}

func (s *shelfServiceSuite) Test_Add_SaveFailureLeavesShelfUnchanged() {
	service := s.newService(shelf([3]string{"Dune", "Frank Herbert", "Fiction"}))
	expectedErr := errors.New("quota exceeded")

	s.store.EXPECT().
		Save(gomock.Any(), gomock.Any()).
		Return(expectedErr)

	_, err := service.Add(context.Background(), "Atomic Habits", "James Clear", "Non-Fiction")

	assert.ErrorIs(s.T(), err, expectedErr)
	assert.Equal(s.T(), 1, service.Len())
	assert.Equal(s.T(), "Dune", service.Books()[0].Title)
}

func (s *shelfServiceSuite) Test_Add_ResolvesCover() {
	s.store.EXPECT().
		Load(gomock.Any()).
		Return([]model.Book{}, nil)

	service, err := New(context.Background(), s.cfg, s.store, s.covers)
	assert.Nil(s.T(), err)

	s.covers.EXPECT().
		Resolve(gomock.Any(), "Dune", "Frank Herbert").
		Return("https://covers.example.com/dune.jpg", nil)
	s.store.EXPECT().
		Save(gomock.Any(), gomock.Any()).
		Return(nil)

	book, err := service.Add(context.Background(), "Dune", "Frank Herbert", "Fiction")

	assert.Nil(s.T(), err)
	assert.Equal(s.T(), "https://covers.example.com/dune.jpg", book.CoverUrl)
}

func (s *shelfServiceSuite) Test_Add_CoverLookupFailureFallsBack() {
	s.store.EXPECT().
		Load(gomock.Any()).
		Return([]model.Book{}, nil)

	service, err := New(context.Background(), s.cfg, s.store, s.covers)
	assert.Nil(s.T(), err)

	s.covers.EXPECT().
		Resolve(gomock.Any(), "Dune", "Frank Herbert").
		Return("", errors.New("timeout"))
	s.store.EXPECT().
		Save(gomock.Any(), gomock.Any()).
		Return(nil)

	book, err := service.Add(context.Background(), "Dune", "Frank Herbert", "Fiction")

	assert.Nil(s.T(), err)
	assert.Equal(s.T(), defaultCover, book.CoverUrl)
}

func (s *shelfServiceSuite) Test_Delete_Success() {
	books := shelf(
		[3]string{"Dune", "Frank Herbert", "Fiction"},
		[3]string{"Atomic Habits", "James Clear", "Non-Fiction"},
	)
	service := s.newService(books)

	s.store.EXPECT().
		Save(gomock.Any(), gomock.Any()).
		Return(nil)

	err := service.Delete(context.Background(), books[0].ID)

	assert.Nil(s.T(), err)
	assert.Equal(s.T(), 1, service.Len())
	assert.Equal(s.T(), "Atomic Habits", service.Books()[0].Title)
}

func (s *shelfServiceSuite) Test_Delete_UnknownIDIsNoOp() {
	service := s.newService(shelf([3]string{"Dune", "Frank Herbert", "Fiction"}))

	// no Save expectation: the store must not be written

	err := service.Delete(context.Background(), "missing-id")

	assert.ErrorIs(s.T(), err, ErrNotFound)
	assert.Equal(s.T(), 1, service.Len())
}

func (s *shelfServiceSuite) Test_DeleteMatching_RemovesAllMatches() {
	service := s.newService(shelf(
		[3]string{"Dune", "Frank Herbert", "Fiction"},
		[3]string{"Atomic Habits", "James Clear", "Non-Fiction"},
		[3]string{"Dune", "Frank Herbert", "Fantasy"},
	))

	s.store.EXPECT().
		Save(gomock.Any(), gomock.Any()).
		Return(nil)

	removed, err := service.DeleteMatching(context.Background(), "Dune", "Frank Herbert")

	assert.Nil(s.T(), err)
	assert.Equal(s.T(), 2, removed)
	assert.Equal(s.T(), 1, service.Len())
	assert.Equal(s.T(), "Atomic Habits", service.Books()[0].Title)
}

func (s *shelfServiceSuite) Test_DeleteMatching_IsCaseSensitive() {
	service := s.newService(shelf([3]string{"Dune", "Frank Herbert", "Fiction"}))

	removed, err := service.DeleteMatching(context.Background(), "dune", "Frank Herbert")

	assert.Nil(s.T(), err)
	assert.Equal(s.T(), 0, removed)
	assert.Equal(s.T(), 1, service.Len())
}

func (s *shelfServiceSuite) Test_DeleteMatching_NoMatchSkipsSave() {
	service := s.newService(shelf([3]string{"Dune", "Frank Herbert", "Fiction"}))

	// no Save expectation: zero matches must not touch the store

	removed, err := service.DeleteMatching(context.Background(), "Solaris", "Stanislaw Lem")

	assert.Nil(s.T(), err)
	assert.Equal(s.T(), 0, removed)
	assert.Equal(s.T(), 1, service.Len())
}

func (s *shelfServiceSuite) Test_Sort_Ascending() {
	service := s.newService(shelf(
		[3]string{"B", "Author B", "Fiction"},
		[3]string{"A", "Author A", "Fiction"},
	))

	s.store.EXPECT().
		Save(gomock.Any(), gomock.Any()).
		Return(nil)

	err := service.Sort(context.Background(), model.SortAscending)

	assert.Nil(s.T(), err)
	books := service.Books()
	assert.Equal(s.T(), "A", books[0].Title)
	assert.Equal(s.T(), "B", books[1].Title)
}

func (s *shelfServiceSuite) Test_Sort_DescendingReversesAscending() {
	service := s.newService(shelf(
		[3]string{"solaris", "Stanislaw Lem", "Fiction"},
		[3]string{"Dune", "Frank Herbert", "Fiction"},
		[3]string{"atomic Habits", "James Clear", "Non-Fiction"},
	))

	s.store.EXPECT().
		Save(gomock.Any(), gomock.Any()).
		Return(nil).
		Times(2)

	err := service.Sort(context.Background(), model.SortAscending)
	assert.Nil(s.T(), err)

	asc := service.Books()
	assert.Equal(s.T(), "atomic Habits", asc[0].Title)
	assert.Equal(s.T(), "Dune", asc[1].Title)
	assert.Equal(s.T(), "solaris", asc[2].Title)

	err = service.Sort(context.Background(), model.SortDescending)
	assert.Nil(s.T(), err)

	desc := service.Books()
	for i := range asc {
		assert.Equal(s.T(), asc[len(asc)-1-i].Title, desc[i].Title)
	}
}

func (s *shelfServiceSuite) Test_Sort_WithoutPersistSkipsSave() {
	cfg := &config.Config{
		Shelf: config.Shelf{
			DefaultCover: defaultCover,
			PersistSort:  false,
		},
	}

	s.store.EXPECT().
		Load(gomock.Any()).
		Return(shelf(
			[3]string{"B", "Author B", "Fiction"},
			[3]string{"A", "Author A", "Fiction"},
		), nil)

	service, err := New(context.Background(), cfg, s.store, nil)
	assert.Nil(s.T(), err)

	// no Save expectation: sort must stay in memory only

	err = service.Sort(context.Background(), model.SortAscending)

	assert.Nil(s.T(), err)
	assert.Equal(s.T(), "A", service.Books()[0].Title)
}

func (s *shelfServiceSuite) Test_Visible_FilterAll() {
	books := shelf(
		[3]string{"Dune", "Frank Herbert", "Fiction"},
		[3]string{"Atomic Habits", "James Clear", "Non-Fiction"},
	)
	service := s.newService(books)

	visible := service.Visible()

	assert.Equal(s.T(), books, visible)
}

func (s *shelfServiceSuite) Test_Visible_FilterByCategory() {
	service := s.newService(shelf(
		[3]string{"Dune", "Frank Herbert", "Fiction"},
		[3]string{"Atomic Habits", "James Clear", "Non-Fiction"},
		[3]string{"Solaris", "Stanislaw Lem", "Fiction"},
	))

	service.SetFilter("Fiction")

	visible := service.Visible()

	assert.Equal(s.T(), 2, len(visible))
	assert.Equal(s.T(), "Dune", visible[0].Title)
	assert.Equal(s.T(), "Solaris", visible[1].Title)
	assert.Equal(s.T(), "Fiction", service.Filter())
}

func (s *shelfServiceSuite) Test_Visible_EmptyResultIsNotNil() {
	service := s.newService(shelf([3]string{"Dune", "Frank Herbert", "Fiction"}))

	service.SetFilter("History")

	visible := service.Visible()

	assert.NotNil(s.T(), visible)
	assert.Equal(s.T(), 0, len(visible))
}

func (s *shelfServiceSuite) Test_Scenario_AddTwoThenFilter() {
	s.store.EXPECT().
		Load(gomock.Any()).
		Return([]model.Book{}, nil)

	service, err := New(context.Background(), s.cfg, s.store, nil)
	assert.Nil(s.T(), err)

	s.store.EXPECT().
		Save(gomock.Any(), gomock.Any()).
		Return(nil).
		Times(2)

	_, err = service.Add(context.Background(), "Dune", "Frank Herbert", "Fiction")
	assert.Nil(s.T(), err)
	_, err = service.Add(context.Background(), "Atomic Habits", "James Clear", "Non-Fiction")
	assert.Nil(s.T(), err)

	service.SetFilter("Fiction")

	visible := service.Visible()

	assert.Equal(s.T(), 1, len(visible))
	assert.Equal(s.T(), "Dune", visible[0].Title)
	assert.Equal(s.T(), "Frank Herbert", visible[0].Author)
	assert.Equal(s.T(), "Fiction", visible[0].Category)
	assert.Equal(s.T(), defaultCover, visible[0].CoverUrl)
}

func (s *shelfServiceSuite) Test_Subscribe_NotifiedOnMutation() {
	service := s.newService(shelf())

	notified := 0
	service.Subscribe(func() { notified++ })

	s.store.EXPECT().
		Save(gomock.Any(), gomock.Any()).
		Return(nil)

	_, err := service.Add(context.Background(), "Dune", "Frank Herbert", "Fiction")
	assert.Nil(s.T(), err)

	service.SetFilter("Fiction")

	assert.Equal(s.T(), 2, notified)
}

func (s *shelfServiceSuite) Test_Subscribe_CallbackMayQueryService() {
	service := s.newService(shelf())

	seenLen := -1
	service.Subscribe(func() { seenLen = service.Len() })

	s.store.EXPECT().
		Save(gomock.Any(), gomock.Any()).
		Return(nil)

	done := make(chan error, 1)
	go func() {
		_, err := service.Add(context.Background(), "Dune", "Frank Herbert", "Fiction")
		done <- err
	}()

	select {
	case err := <-done:
		assert.Nil(s.T(), err)
	case <-time.After(3 * time.Second):
		s.T().Fatal("Add did not return, subscriber callback blocked the service")
	}

	assert.Equal(s.T(), 1, seenLen)
}

func (s *shelfServiceSuite) Test_Add_CoverResolverMayQueryService() {
	s.store.EXPECT().
		Load(gomock.Any()).
		Return([]model.Book{}, nil)

	service, err := New(context.Background(), s.cfg, s.store, s.covers)
	assert.Nil(s.T(), err)

	s.covers.EXPECT().
		Resolve(gomock.Any(), "Dune", "Frank Herbert").
		DoAndReturn(func(context.Context, string, string) (string, error) {
			// slow lookups must not hold up readers
			assert.Equal(s.T(), 0, service.Len())
			return "https://covers.example.com/dune.jpg", nil
		})
	s.store.EXPECT().
		Save(gomock.Any(), gomock.Any()).
		Return(nil)

	done := make(chan error, 1)
	go func() {
		_, err := service.Add(context.Background(), "Dune", "Frank Herbert", "Fiction")
		done <- err
	}()

	select {
	case err := <-done:
		assert.Nil(s.T(), err)
	case <-time.After(3 * time.Second):
		s.T().Fatal("Add did not return, cover lookup blocked the service")
	}
}

func (s *shelfServiceSuite) Test_Sort_UnknownDirection() {
	service := s.newService(shelf(
		[3]string{"B", "Author B", "Fiction"},
		[3]string{"A", "Author A", "Fiction"},
	))

	err := service.Sort(context.Background(), model.SortDirection("sideways"))

	assert.ErrorIs(s.T(), err, ErrUnknownDirection)
	books := service.Books()
	assert.Equal(s.T(), "B", books[0].Title)
	assert.Equal(s.T(), "A", books[1].Title)
}

func (s *shelfServiceSuite) Test_Categories_DistinctInFirstSeenOrder() {
	service := s.newService(shelf(
		[3]string{"Dune", "Frank Herbert", "Fiction"},
		[3]string{"Atomic Habits", "James Clear", "Non-Fiction"},
		[3]string{"Solaris", "Stanislaw Lem", "Fiction"},
	))

	assert.Equal(s.T(), []string{"Fiction", "Non-Fiction"}, service.Categories())
}
