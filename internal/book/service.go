package book

import (
	"context"
)

// Service validates book payloads and forwards them to the repository.
type Service struct {
	repo Repository
}

// NewService creates a new book service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns all books.
func (s *Service) List(ctx context.Context) ([]Book, error) {
	books, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if books == nil {
		books = []Book{}
	}
	return books, nil
}

// GetByISBN returns a book by its ISBN.
func (s *Service) GetByISBN(ctx context.Context, isbn string) (Book, error) {
	return s.repo.GetByISBN(ctx, isbn)
}

// Create validates payload against CreateSchema and inserts the book.
func (s *Service) Create(ctx context.Context, payload []byte) (Book, error) {
	doc, violations := CreateSchema.Decode(payload)
	if violations != nil {
		return Book{}, &ValidationError{Violations: violations}
	}

	b := bind(doc)
	if violations := ValidateBook(b); violations != nil {
		return Book{}, &ValidationError{Violations: violations}
	}
	return s.repo.Create(ctx, b)
}

// Update validates payload against UpdateSchema and replaces the book
// stored under isbn. An isbn inside the payload is ignored.
func (s *Service) Update(ctx context.Context, isbn string, payload []byte) (Book, error) {
	doc, violations := UpdateSchema.Decode(payload)
	if violations != nil {
		return Book{}, &ValidationError{Violations: violations}
	}

	b := bind(doc)
	b.ISBN = isbn
	if violations := validateFields(b); violations != nil {
		return Book{}, &ValidationError{Violations: violations}
	}
	return s.repo.Update(ctx, b)
}

// Delete removes the book stored under isbn.
func (s *Service) Delete(ctx context.Context, isbn string) error {
	return s.repo.Delete(ctx, isbn)
}
