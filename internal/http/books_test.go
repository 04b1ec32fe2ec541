package http

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/library/internal/entities"
)

func shelf() []entities.Book {
	return []entities.Book{
		{Title: "The Hobbit", Author: "J.R.R. Tolkien", Genre: "fantasy", Year: intPtr(1937)},
		{Title: "Neuromancer", Author: "William Gibson", Genre: "cyberpunk", Year: intPtr(1984)},
		{Title: "Dune", Author: "Frank Herbert", Genre: "science fiction", Year: intPtr(1965)},
	}
}

func bookForm(title, author, genre, year string) url.Values {
	return url.Values{
		"title":  {title},
		"author": {author},
		"genre":  {genre},
		"year":   {year},
	}
}

func TestBooks_Redirects(t *testing.T) {
	app := setupTestApp(t)

	for _, path := range []string{"/", "/books", "/books/"} {
		t.Run(path, func(t *testing.T) {
			w := app.get(path)
			assert.Equal(t, http.StatusFound, w.Code)
			assert.Equal(t, "/books/page1", w.Header().Get("Location"))
		})
	}
}

func TestBooks_ListPagination(t *testing.T) {
	app := setupTestApp(t)
	app.seedNumbered(t, 25)

	t.Run("first page holds the first ten titles", func(t *testing.T) {
		w := app.get("/books/page1")
		require.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, "Book 01")
		assert.Contains(t, body, "Book 10")
		assert.NotContains(t, body, "Book 11")
		assert.Contains(t, body, `href="/books/page2"`)
		assert.Contains(t, body, `href="/books/page3"`)
		assert.Contains(t, body, "25 books, page 1 of 3")
	})

	t.Run("third page holds ranks 21 to 25", func(t *testing.T) {
		w := app.get("/books/page3")
		require.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		for _, title := range []string{"Book 21", "Book 22", "Book 23", "Book 24", "Book 25"} {
			assert.Contains(t, body, title)
		}
		assert.NotContains(t, body, "Book 20")
		assert.Contains(t, body, "page 3 of 3")
	})

	t.Run("page past the end is empty", func(t *testing.T) {
		w := app.get("/books/page4")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "No books found.")
		assert.Contains(t, w.Body.String(), `href="/books/page3"`)
	})

	t.Run("invalid page numbers are rejected", func(t *testing.T) {
		for _, path := range []string{"/books/page0", "/books/page-1", "/books/pageabc", "/books/page"} {
			w := app.get(path)
			assert.Equal(t, http.StatusBadRequest, w.Code, path)
			assert.Contains(t, w.Body.String(), "Invalid page number")
		}
	})
}

func TestBooks_EmptyCatalog(t *testing.T) {
	app := setupTestApp(t)

	w := app.get("/books/page1")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No books found.")
	assert.NotContains(t, w.Body.String(), `class="pagination"`)
}

func TestBooks_Search(t *testing.T) {
	app := setupTestApp(t)
	app.seed(t, shelf()...)
	app.seed(t, entities.Book{Title: "Back in Black", Author: "AC/DC", Genre: "music"})
	app.seed(t, entities.Book{Title: "Émile", Author: "Jean-Jacques Rousseau", Genre: "Philosophy"})

	tests := []struct {
		name    string
		path    string
		want    []string
		notWant []string
	}{
		{"title case-insensitive", "/books/page1/hobbit", []string{"The Hobbit"}, []string{"Neuromancer", "Dune"}},
		{"partial word", "/books/page1/Hob", []string{"The Hobbit"}, []string{"Neuromancer"}},
		{"author", "/books/page1/gibson", []string{"Neuromancer"}, []string{"The Hobbit"}},
		{"genre only", "/books/page1/fantasy", []string{"The Hobbit"}, []string{"Dune"}},
		{"year as text", "/books/page1/196", []string{"Dune"}, []string{"The Hobbit"}},
		{"escaped slash", "/books/page1/AC%2FDC", []string{"Back in Black"}, []string{"Dune"}},
		{"escaped space", "/books/page1/science%20fiction", []string{"Dune"}, []string{"Neuromancer"}},
		{"wildcard is literal", "/books/page1/%25", nil, []string{"The Hobbit", "Dune"}},
		{"accented lowercase", "/books/page1/%C3%A9mile", []string{"Émile"}, []string{"Dune"}},
		{"accented uppercase", "/books/page1/%C3%89MILE", []string{"Émile"}, []string{"Dune"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := app.get(tt.path)
			require.Equal(t, http.StatusOK, w.Code)
			body := w.Body.String()
			for _, s := range tt.want {
				assert.Contains(t, body, s)
			}
			for _, s := range tt.notWant {
				assert.NotContains(t, body, s)
			}
		})
	}

	t.Run("pagination links keep the term", func(t *testing.T) {
		app := setupTestApp(t)
		app.seedNumbered(t, 12)

		w := app.get("/books/page1/book")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `href="/books/page2/book"`)
	})
}

func TestBooks_SearchSubmit(t *testing.T) {
	app := setupTestApp(t)

	tests := []struct {
		name     string
		path     string
		form     url.Values
		location string
	}{
		{"term from form", "/books/page1", url.Values{"search": {"Dune"}}, "/books/page1/Dune"},
		{"resets to first page", "/books/page3/old", url.Values{"search": {"new term"}}, "/books/page1/new%20term"},
		{"slash is escaped", "/books/page1", url.Values{"search": {"AC/DC"}}, "/books/page1/AC%2FDC"},
		{"empty term clears search", "/books/page2/old", url.Values{"search": {"  "}}, "/books/page1"},
		{"term from path", "/books/page2/hobbit", url.Values{}, "/books/page1/hobbit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := app.postForm(tt.path, tt.form)
			assert.Equal(t, http.StatusFound, w.Code)
			assert.Equal(t, tt.location, w.Header().Get("Location"))
		})
	}

	t.Run("invalid page number", func(t *testing.T) {
		w := app.postForm("/books/page0", url.Values{"search": {"x"}})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestBooks_NewForm(t *testing.T) {
	app := setupTestApp(t)

	w := app.get("/new")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `action="/"`)
	assert.Contains(t, body, `name="title"`)
	assert.Contains(t, body, `name="year"`)
}

func TestBooks_Create(t *testing.T) {
	t.Run("valid book redirects to its view", func(t *testing.T) {
		app := setupTestApp(t)

		w := app.postForm("/", bookForm("  Dune ", "Frank Herbert", "science fiction", "1965"))
		require.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/books/1", w.Header().Get("Location"))

		book, err := app.books.GetBookByID(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, "Dune", book.Title)
		require.NotNil(t, book.Year)
		assert.Equal(t, 1965, *book.Year)

		view := app.get("/books/1")
		require.Equal(t, http.StatusOK, view.Code)
		assert.Contains(t, view.Body.String(), "Frank Herbert")
		assert.Contains(t, view.Body.String(), "1965")
	})

	t.Run("empty title re-renders the form without saving", func(t *testing.T) {
		app := setupTestApp(t)

		w := app.postForm("/", bookForm("", "Ursula K. Le Guin", "fantasy", "1968"))
		require.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, "Title is required")
		assert.Contains(t, body, `value="Ursula K. Le Guin"`)
		assert.Contains(t, body, `value="1968"`)
		assert.Equal(t, int64(0), app.countBooks(t))
	})

	t.Run("non-numeric year is reported and kept as typed", func(t *testing.T) {
		app := setupTestApp(t)

		w := app.postForm("/", bookForm("Dune", "Frank Herbert", "", "nineteen"))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Year must be a whole number")
		assert.Contains(t, w.Body.String(), `value="nineteen"`)
		assert.Equal(t, int64(0), app.countBooks(t))
	})

	t.Run("every invalid field is reported", func(t *testing.T) {
		app := setupTestApp(t)

		w := app.postForm("/", bookForm("", "", "", "12345"))
		require.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, "Title is required")
		assert.Contains(t, body, "Author is required")
		assert.Contains(t, body, "Year must be at most 9999")
	})
}

func TestBooks_Show(t *testing.T) {
	app := setupTestApp(t)
	app.seed(t, shelf()...)

	w := app.get("/books/2")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Neuromancer")
	assert.Contains(t, w.Body.String(), `action="/books/2/delete"`)
	assert.Contains(t, w.Body.String(), `href="/books/2/update"`)

	for _, path := range []string{"/books/999", "/books/abc", "/books/0", "/books/1/bogus", "/books/1/update/extra"} {
		t.Run(path, func(t *testing.T) {
			assert.Equal(t, http.StatusNotFound, app.get(path).Code)
		})
	}
}

func TestBooks_ShowHistory(t *testing.T) {
	t.Run("lists changes of this book only", func(t *testing.T) {
		app := setupTestApp(t)

		require.Equal(t, http.StatusFound, app.postForm("/", bookForm("Dune", "Frank Herbert", "", "")).Code)
		require.Equal(t, http.StatusFound, app.postForm("/", bookForm("Emma", "Jane Austen", "", "")).Code)
		require.Equal(t, http.StatusFound, app.postForm("/books/1/update", bookForm("Dune Messiah", "Frank Herbert", "", "1969")).Code)

		w := app.get("/books/1")
		require.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, "<h2>History</h2>")
		assert.Contains(t, body, `class="action-created"`)
		assert.Contains(t, body, `class="action-updated"`)
		assert.Less(t, strings.Index(body, "action-updated"), strings.Index(body, "action-created"))
		assert.NotContains(t, body, "Jane Austen")
	})

	t.Run("seeded book has no history", func(t *testing.T) {
		app := setupTestApp(t)
		app.seed(t, shelf()...)

		w := app.get("/books/1")
		require.Equal(t, http.StatusOK, w.Code)
		assert.NotContains(t, w.Body.String(), "<h2>History</h2>")
	})
}

func TestBooks_Update(t *testing.T) {
	t.Run("edit form is pre-filled", func(t *testing.T) {
		app := setupTestApp(t)
		app.seed(t, shelf()...)

		w := app.get("/books/3/update")
		require.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, `action="/books/3/update"`)
		assert.Contains(t, body, `value="Dune"`)
		assert.Contains(t, body, `value="1965"`)
	})

	t.Run("valid update redirects to the view", func(t *testing.T) {
		app := setupTestApp(t)
		app.seed(t, shelf()...)

		w := app.postForm("/books/3/update", bookForm("Dune Messiah", "Frank Herbert", "science fiction", ""))
		require.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/books/3", w.Header().Get("Location"))

		book, err := app.books.GetBookByID(context.Background(), 3)
		require.NoError(t, err)
		assert.Equal(t, "Dune Messiah", book.Title)
		assert.Nil(t, book.Year)
	})

	t.Run("invalid update keeps the id and the stored record", func(t *testing.T) {
		app := setupTestApp(t)
		app.seed(t, shelf()...)

		w := app.postForm("/books/3/update", bookForm("   ", "Frank Herbert", "", "1965"))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Title is required")
		assert.Contains(t, w.Body.String(), `action="/books/3/update"`)

		book, err := app.books.GetBookByID(context.Background(), 3)
		require.NoError(t, err)
		assert.Equal(t, "Dune", book.Title)
	})

	t.Run("missing book", func(t *testing.T) {
		app := setupTestApp(t)

		assert.Equal(t, http.StatusNotFound, app.get("/books/42/update").Code)
		w := app.postForm("/books/42/update", bookForm("Dune", "Frank Herbert", "", ""))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestBooks_Delete(t *testing.T) {
	app := setupTestApp(t)
	app.seedNumbered(t, 7)

	w := app.postForm("/books/7/delete", url.Values{})
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/books/", w.Header().Get("Location"))

	assert.Equal(t, http.StatusNotFound, app.get("/books/7").Code)
	assert.Equal(t, int64(6), app.countBooks(t))

	again := app.postForm("/books/7/delete", url.Values{})
	assert.Equal(t, http.StatusNotFound, again.Code)
}

func TestBooks_FlashAfterCreate(t *testing.T) {
	app := setupTestApp(t, withSessions(t))

	w := app.postForm("/", bookForm("Dune", "Frank Herbert", "", ""))
	require.Equal(t, http.StatusFound, w.Code)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	show := func() string {
		req, err := http.NewRequest(http.MethodGet, w.Header().Get("Location"), nil)
		require.NoError(t, err)
		for _, c := range cookies {
			req.AddCookie(c)
		}
		rec := app.serve(req)
		require.Equal(t, http.StatusOK, rec.Code)
		return rec.Body.String()
	}

	assert.Contains(t, show(), "added")
	assert.NotContains(t, show(), "added", "flash is shown once")
}

func TestBooks_ReadOnly(t *testing.T) {
	app := setupTestApp(t, withReadOnly())
	app.seed(t, shelf()...)

	w := app.postForm("/", bookForm("Dune", "Frank Herbert", "", ""))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "read-only")

	w = app.postForm("/books/1/delete", url.Values{})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, int64(3), app.countBooks(t))

	list := app.get("/books/page1")
	require.Equal(t, http.StatusOK, list.Code)
	assert.NotContains(t, list.Body.String(), `href="/new"`)

	search := app.postForm("/books/page1", url.Values{"search": {"dune"}})
	assert.Equal(t, http.StatusFound, search.Code)
}

func TestRouter_NotFound(t *testing.T) {
	app := setupTestApp(t)

	w := app.get("/nope")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Page not found")
}
