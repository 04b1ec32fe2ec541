package cli

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/mrlokans/library/internal/activity"
	"github.com/mrlokans/library/internal/config"
	"github.com/mrlokans/library/internal/database"
	activityRepo "github.com/mrlokans/library/internal/database/activity"
	"github.com/mrlokans/library/internal/database/books"
	"github.com/mrlokans/library/internal/entities"
	"github.com/mrlokans/library/internal/logging"
)

// SeedRequestID marks activity events written by the seed command.
const SeedRequestID = "seed"

// SeedBook is one entry of a seed file.
type SeedBook struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	Genre  string `json:"genre,omitempty"`
	Year   *int   `json:"year,omitempty"`
}

func (b SeedBook) toEntity() *entities.Book {
	return &entities.Book{
		Title:  b.Title,
		Author: b.Author,
		Genre:  b.Genre,
		Year:   b.Year,
	}
}

// SeedCommand loads books into the catalog database.
type SeedCommand struct {
	FilePath     string
	DatabasePath string
	Verbose      bool
	DryRun       bool

	Out io.Writer
}

func NewSeedCommand() *SeedCommand {
	return &SeedCommand{Out: os.Stdout}
}

func (cmd *SeedCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("seed", flag.ExitOnError)

	fs.StringVar(&cmd.FilePath, "file", "", "Path to a JSON array of books (default: built-in sample shelf)")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the SQLite catalog database")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "List every book and enable verbose logging")
	fs.BoolVar(&cmd.DryRun, "dry-run", false, "Validate the books without writing them")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s seed [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Insert books into the catalog. Each book is validated with the same rules\n")
		fmt.Fprintf(os.Stderr, "as the web forms; invalid entries are reported and skipped.\n\n")
		fmt.Fprintf(os.Stderr, "Seed file format:\n")
		fmt.Fprintf(os.Stderr, "  [{\"title\": \"Dune\", \"author\": \"Frank Herbert\", \"genre\": \"science fiction\", \"year\": 1965}]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  # Load the sample shelf:\n")
		fmt.Fprintf(os.Stderr, "  %s seed\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  # Check a file without importing it:\n")
		fmt.Fprintf(os.Stderr, "  %s seed -file books.json -dry-run -verbose\n", os.Args[0])
	}

	return fs.Parse(args)
}

func (cmd *SeedCommand) Run() error {
	out := cmd.Out
	if out == nil {
		out = os.Stdout
	}

	fmt.Fprintln(out, "Catalog Seed")
	fmt.Fprintln(out, "============")

	if cmd.DryRun {
		fmt.Fprintln(out, "DRY RUN MODE - No changes will be made")
		fmt.Fprintln(out)
	}

	seed := SampleShelf()
	if cmd.FilePath != "" {
		var err error
		seed, err = LoadSeedFile(cmd.FilePath)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "File: %s\n", cmd.FilePath)
	} else {
		fmt.Fprintln(out, "Using the built-in sample shelf")
	}

	fmt.Fprintf(out, "Found %d books\n", len(seed))

	var valid []*entities.Book
	var seedErrors []string
	for i, entry := range seed {
		book := entry.toEntity()
		if err := book.Validate(); err != nil {
			seedErrors = append(seedErrors, fmt.Sprintf("#%d %q: %v", i+1, entry.Title, err))
			continue
		}
		valid = append(valid, book)
		if cmd.Verbose {
			fmt.Fprintf(out, "%d. %q by %s\n", i+1, book.Title, book.Author)
		}
	}

	if cmd.DryRun {
		printSeedErrors(out, seedErrors)
		fmt.Fprintf(out, "\n%d books would be inserted. Use without -dry-run to import.\n", len(valid))
		return nil
	}

	absDBPath, err := filepath.Abs(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path for database: %w", err)
	}
	fmt.Fprintf(out, "\nSaving to database: %s\n", absDBPath)

	logLevel := "warn"
	if cmd.Verbose {
		logLevel = "debug"
	}
	log := logging.NewWithOutput(config.Log{Level: logLevel, Format: "text"}, os.Stderr)

	db, err := database.NewDatabase(config.Database{
		Driver:   config.DriverSQLite,
		Path:     absDBPath,
		LogLevel: "silent",
	}, log)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	inserted, insertErrors := insertBooks(context.Background(), db, valid, log)
	seedErrors = append(seedErrors, insertErrors...)

	printSeedErrors(out, seedErrors)
	fmt.Fprintf(out, "\nInserted %d of %d books\n", inserted, len(seed))

	if len(seedErrors) > 0 {
		return fmt.Errorf("%d books could not be seeded", len(seedErrors))
	}
	return nil
}

func insertBooks(ctx context.Context, db *database.Database, items []*entities.Book, log logrus.FieldLogger) (int, []string) {
	repo := books.NewRepository(db.DB)
	recorder := activity.NewService(activityRepo.NewRepository(db.DB), log)

	var inserted int
	var errs []string
	for _, book := range items {
		if err := repo.CreateBook(ctx, book); err != nil {
			errs = append(errs, fmt.Sprintf("%q: %v", book.Title, err))
			continue
		}
		recorder.Record(ctx, entities.ActivityBookCreated, book, SeedRequestID)
		inserted++
	}
	return inserted, errs
}

func printSeedErrors(out io.Writer, errs []string) {
	if len(errs) == 0 {
		return
	}
	fmt.Fprintf(out, "\n=== Skipped (%d) ===\n", len(errs))
	for _, e := range errs {
		fmt.Fprintf(out, "  %s\n", e)
	}
}

// LoadSeedFile reads a JSON array of books.
func LoadSeedFile(path string) ([]SeedBook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	var seed []SeedBook
	if err := json.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed file %s: %w", path, err)
	}
	return seed, nil
}

func year(y int) *int {
	return &y
}

// SampleShelf is the default seed: a small mixed shelf that spans more than
// one list page.
func SampleShelf() []SeedBook {
	return []SeedBook{
		{Title: "The Hobbit", Author: "J.R.R. Tolkien", Genre: "fantasy", Year: year(1937)},
		{Title: "The Fellowship of the Ring", Author: "J.R.R. Tolkien", Genre: "fantasy", Year: year(1954)},
		{Title: "A Wizard of Earthsea", Author: "Ursula K. Le Guin", Genre: "fantasy", Year: year(1968)},
		{Title: "The Left Hand of Darkness", Author: "Ursula K. Le Guin", Genre: "science fiction", Year: year(1969)},
		{Title: "Dune", Author: "Frank Herbert", Genre: "science fiction", Year: year(1965)},
		{Title: "Neuromancer", Author: "William Gibson", Genre: "cyberpunk", Year: year(1984)},
		{Title: "Foundation", Author: "Isaac Asimov", Genre: "science fiction", Year: year(1951)},
		{Title: "Pride and Prejudice", Author: "Jane Austen", Genre: "romance", Year: year(1813)},
		{Title: "Emma", Author: "Jane Austen", Genre: "romance", Year: year(1815)},
		{Title: "Moby-Dick", Author: "Herman Melville", Genre: "adventure", Year: year(1851)},
		{Title: "The Name of the Rose", Author: "Umberto Eco", Genre: "mystery", Year: year(1980)},
		{Title: "The Master and Margarita", Author: "Mikhail Bulgakov", Genre: "satire", Year: year(1967)},
		{Title: "Beowulf", Author: "Unknown", Genre: "epic poetry"},
	}
}
