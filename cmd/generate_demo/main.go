// Command generate_demo creates a fresh demo catalog: the sample shelf plus
// enough numbered filler books to span several list pages.
// Usage: go run ./cmd/generate_demo [-db path/to/demo.db] [-filler 40]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/mrlokans/library/internal/cli"
	"github.com/mrlokans/library/internal/config"
	"github.com/mrlokans/library/internal/database"
	"github.com/mrlokans/library/internal/database/books"
	"github.com/mrlokans/library/internal/entities"
)

const defaultDemoDatabasePath = "./demo/demo.db"

var fillerGenres = []string{"fantasy", "science fiction", "mystery", "romance", "history"}

func main() {
	dbPath := flag.String("db", defaultDemoDatabasePath, "path to the demo database file")
	filler := flag.Int("filler", 40, "number of generated filler books")
	flag.Parse()

	log := logrus.New()
	log.WithField("path", *dbPath).Info("Generating demo database")

	// Delete existing demo database to start fresh
	if err := os.Remove(*dbPath); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Fatal("Failed to remove existing demo database")
	}

	db, err := database.NewDatabase(config.Database{
		Driver:   config.DriverSQLite,
		Path:     *dbPath,
		LogLevel: "silent",
	}, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to create database")
	}
	defer db.Close()

	ctx := context.Background()
	repo := books.NewRepository(db.DB)

	for _, seed := range cli.SampleShelf() {
		book := &entities.Book{Title: seed.Title, Author: seed.Author, Genre: seed.Genre, Year: seed.Year}
		if err := repo.CreateBook(ctx, book); err != nil {
			log.WithError(err).WithField("title", seed.Title).Fatal("Failed to create book")
		}
	}

	for i := 1; i <= *filler; i++ {
		year := 1900 + (i*7)%120
		book := &entities.Book{
			Title:  fmt.Sprintf("Demo Volume %03d", i),
			Author: fmt.Sprintf("Author %02d", (i%9)+1),
			Genre:  fillerGenres[i%len(fillerGenres)],
			Year:   &year,
		}
		if err := repo.CreateBook(ctx, book); err != nil {
			log.WithError(err).WithField("title", book.Title).Fatal("Failed to create filler book")
		}
	}

	total, err := repo.CountBooks(ctx)
	if err != nil {
		log.WithError(err).Fatal("Failed to count books")
	}
	log.WithField("books", total).Info("Demo database ready")
}
