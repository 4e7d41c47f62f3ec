package book

import (
	"context"
)

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=book

// Repository defines the contract for book data storage.
type Repository interface {
	// List returns every book ordered by title.
	List(ctx context.Context) ([]Book, error)
	// GetByISBN returns ErrNotFound when no row matches.
	GetByISBN(ctx context.Context, isbn string) (Book, error)
	Create(ctx context.Context, b Book) (Book, error)
	// Update replaces every non-key column; ErrNotFound when no row matches.
	Update(ctx context.Context, b Book) (Book, error)
	// Delete returns ErrNotFound when no row matches.
	Delete(ctx context.Context, isbn string) error
}
