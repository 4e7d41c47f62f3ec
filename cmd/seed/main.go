package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"time"

	"bookshelf/internal/auth"
	"bookshelf/internal/book"
	"bookshelf/internal/config"
	"bookshelf/internal/database"
	"bookshelf/internal/logger"

	"github.com/rs/zerolog"
)

var (
	languages  = []string{"english", "spanish", "french", "german", "italian", "portuguese"}
	publishers = []string{"Penguin", "HarperCollins", "Oxford", "Cambridge", "MIT Press", "Springer", "Wiley"}
	authors    = []string{"Brenda", "Ada Lovelace", "Alan Turing", "Grace Hopper", "Edsger Dijkstra"}
	words      = []string{"Algorithms", "Data", "Systems", "Networks", "Design", "Patterns", "Architecture", "Theory"}
)

// sampleBooks are always seeded before any generated ones.
var sampleBooks = []book.Book{
	{ISBN: "019283", AmazonURL: "amazon@books.com", Author: "Test-Author", Language: "english", Pages: 250, Publisher: "Test-Publisher", Title: "Test-Title", Year: 2000},
	{ISBN: "031590", AmazonURL: "march15@1990.year", Author: "Brenda", Language: "english", Pages: 11160, Publisher: "JRMC", Title: "Story Of Me", Year: 1990},
}

func main() {
	var (
		count      = flag.Int("count", 20, "Number of generated books on top of the samples")
		seed       = flag.Int64("seed", 1, "Random seed for generated books")
		printToken = flag.Bool("print-token", false, "Print a bearer token for the mutating routes and exit")
		tokenTTL   = flag.Duration("token-ttl", 24*time.Hour, "Lifetime of the printed token")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log := logger.New("error", true)
		log.Fatal().Err(err).Msg("cannot load config")
	}
	log := logger.New(cfg.Log.Level, true).With().Str("component", "seed").Logger()

	if *printToken {
		if !cfg.AuthEnabled() {
			log.Fatal().Msg("BOOKSHELF_AUTH__JWT_SECRET is not set")
		}
		token, _, err := auth.GenerateToken(cfg.Auth.JWTSecret, "seed", "ADMIN", *tokenTTL)
		if err != nil {
			log.Fatal().Err(err).Msg("cannot generate token")
		}
		fmt.Println(token)
		return
	}

	ctx := context.Background()
	db, err := database.New(ctx, cfg.Database, log, false)
	if err != nil {
		log.Fatal().Err(err).Str("dsn", database.RedactDSN(cfg.Database.DSN)).Msg("cannot open database")
	}
	defer db.Close()

	repo := book.NewPostgresRepo(db.Pool, cfg.Database.QueryTimeout)
	books := append(append([]book.Book{}, sampleBooks...), generateBooks(*count, rand.New(rand.NewSource(*seed)))...)

	inserted, skipped, err := seedBooks(ctx, repo, books, log)
	if err != nil {
		log.Fatal().Err(err).Msg("seeding failed")
	}
	log.Info().Int("inserted", inserted).Int("skipped", skipped).Msg("seeding done")
}

// generateBooks returns n valid books with ISBNs derived from their index,
// so reruns with the same n produce the same keys.
func generateBooks(n int, rng *rand.Rand) []book.Book {
	out := make([]book.Book, 0, n)
	for i := 0; i < n; i++ {
		isbn := fmt.Sprintf("978%08d", i+1)
		out = append(out, book.Book{
			ISBN:      isbn,
			AmazonURL: "https://www.amazon.com/dp/" + isbn,
			Author:    authors[rng.Intn(len(authors))],
			Language:  languages[rng.Intn(len(languages))],
			Pages:     100 + rng.Intn(800),
			Publisher: publishers[rng.Intn(len(publishers))],
			Title:     fmt.Sprintf("%s of %s %d", words[rng.Intn(len(words))], words[rng.Intn(len(words))], i+1),
			Year:      1950 + rng.Intn(75),
		})
	}
	return out
}

// seedBooks inserts every book not already stored. Invalid books abort the
// run before anything is written.
func seedBooks(ctx context.Context, repo book.Repository, books []book.Book, log zerolog.Logger) (inserted, skipped int, err error) {
	for _, b := range books {
		if violations := book.ValidateBook(b); violations != nil {
			return 0, 0, &book.ValidationError{Violations: violations}
		}
	}

	for _, b := range books {
		_, err := repo.GetByISBN(ctx, b.ISBN)
		switch {
		case err == nil:
			skipped++
			continue
		case !errors.Is(err, book.ErrNotFound):
			return inserted, skipped, fmt.Errorf("lookup %s: %w", b.ISBN, err)
		}

		if _, err := repo.Create(ctx, b); err != nil {
			return inserted, skipped, fmt.Errorf("insert %s: %w", b.ISBN, err)
		}
		log.Debug().Str("isbn", b.ISBN).Msg("book inserted")
		inserted++
	}
	return inserted, skipped, nil
}
