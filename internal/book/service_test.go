package book

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testBook = Book{
	ISBN:      "019283",
	AmazonURL: "amazon@books.com",
	Author:    "Test-Author",
	Language:  "english",
	Pages:     250,
	Publisher: "Test-Publisher",
	Title:     "Test-Title",
	Year:      2000,
}

func TestService_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	service := NewService(mockRepo)
	ctx := context.Background()

	t.Run("nil from store becomes empty", func(t *testing.T) {
		mockRepo.EXPECT().List(ctx).Return(nil, nil)

		books, err := service.List(ctx)

		require.NoError(t, err)
		assert.NotNil(t, books)
		assert.Empty(t, books)
	})

	t.Run("store error", func(t *testing.T) {
		mockRepo.EXPECT().List(ctx).Return(nil, context.DeadlineExceeded)

		_, err := service.List(ctx)

		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	service := NewService(mockRepo)
	ctx := context.Background()

	t.Run("valid payload is inserted", func(t *testing.T) {
		mockRepo.EXPECT().Create(ctx, testBook).Return(testBook, nil)

		created, err := service.Create(ctx, []byte(`{"isbn":"019283","amazon_url":"amazon@books.com","author":"Test-Author","language":"english","pages":250,"publisher":"Test-Publisher","title":"Test-Title","year":2000}`))

		require.NoError(t, err)
		assert.Equal(t, testBook, created)
	})

	t.Run("schema violation never reaches the store", func(t *testing.T) {
		_, err := service.Create(ctx, []byte(`{"isbn":"019283","pages":"250"}`))

		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Contains(t, fields(verr.Violations), "pages")
		assert.Contains(t, fields(verr.Violations), "title")
	})

	t.Run("negative year", func(t *testing.T) {
		_, err := service.Create(ctx, []byte(`{"isbn":"019283","amazon_url":"a","author":"b","language":"c","pages":5,"publisher":"d","title":"e","year":-5}`))

		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, []string{"year"}, fields(verr.Violations))
	})

	t.Run("rule violation never reaches the store", func(t *testing.T) {
		_, err := service.Create(ctx, []byte(`{"isbn":"019283","amazon_url":"a","author":"b","language":"c","pages":-5,"publisher":"d","title":"e","year":2000}`))

		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, []string{"pages"}, fields(verr.Violations))
	})
}

func TestService_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	service := NewService(mockRepo)
	ctx := context.Background()

	updated := testBook
	updated.Pages = 11160
	updated.Title = "Story Of Me"

	t.Run("path isbn wins over body isbn", func(t *testing.T) {
		mockRepo.EXPECT().Update(ctx, updated).Return(updated, nil)

		got, err := service.Update(ctx, "019283", []byte(`{"isbn":"other","amazon_url":"amazon@books.com","author":"Test-Author","language":"english","pages":11160,"publisher":"Test-Publisher","title":"Story Of Me","year":2000}`))

		require.NoError(t, err)
		assert.Equal(t, updated, got)
	})

	t.Run("unknown isbn", func(t *testing.T) {
		mockRepo.EXPECT().Update(ctx, gomock.Any()).Return(Book{}, ErrNotFound)

		_, err := service.Update(ctx, "404404", []byte(`{"amazon_url":"a","author":"b","language":"c","pages":1,"publisher":"d","title":"e","year":1}`))

		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("year as string", func(t *testing.T) {
		_, err := service.Update(ctx, "019283", []byte(`{"amazon_url":"a","author":"b","language":"c","pages":1,"publisher":"d","title":"e","year":"1990"}`))

		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, []string{"year"}, fields(verr.Violations))
	})
}

func TestService_GetAndDelete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	service := NewService(mockRepo)
	ctx := context.Background()

	mockRepo.EXPECT().GetByISBN(ctx, "019283").Return(testBook, nil)
	got, err := service.GetByISBN(ctx, "019283")
	require.NoError(t, err)
	assert.Equal(t, testBook, got)

	mockRepo.EXPECT().Delete(ctx, "019283").Return(nil)
	assert.NoError(t, service.Delete(ctx, "019283"))

	mockRepo.EXPECT().Delete(ctx, "019283").Return(ErrNotFound)
	assert.ErrorIs(t, service.Delete(ctx, "019283"), ErrNotFound)
}
