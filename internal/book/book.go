package book

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when no book has the requested ISBN.
var ErrNotFound = errors.New("book not found")

// Book is a row of the books table. The db tags are used both by goqu
// and by pgx.RowToStructByName.
type Book struct {
	ISBN      string `json:"isbn" db:"isbn" validate:"required,max=32,excludesall=/?#"`
	AmazonURL string `json:"amazon_url" db:"amazon_url"`
	Author    string `json:"author" db:"author"`
	Language  string `json:"language" db:"language"`
	Pages     int    `json:"pages" db:"pages" validate:"gte=0"`
	Publisher string `json:"publisher" db:"publisher"`
	Title     string `json:"title" db:"title"`
	Year      int    `json:"year" db:"year" validate:"gte=0"`
}

// Violation is one failed constraint of a create or update payload.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every violation found in a payload.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.Field+": "+v.Message)
	}
	return fmt.Sprintf("invalid book payload: %s", strings.Join(parts, "; "))
}
