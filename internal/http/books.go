package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/library/internal/catalog"
	"github.com/mrlokans/library/internal/entities"
	"github.com/mrlokans/library/internal/security"
	"github.com/mrlokans/library/internal/validation"
)

// BooksController serves the catalog pages: paginated list and search, and
// the create, view, update and delete flows.
type BooksController struct {
	store    BookStore
	activity ActivityLog
}

func NewBooksController(store BookStore, activity ActivityLog) *BooksController {
	return &BooksController{store: store, activity: activity}
}

// RedirectToFirstPage sends the bare list URLs to the first page.
func (bc *BooksController) RedirectToFirstPage(c *gin.Context) {
	redirectFound(c, listPath(1, ""))
}

// Get dispatches every GET below /books/.
func (bc *BooksController) Get(c *gin.Context) {
	route := routeOf(c)

	switch {
	case route.isList:
		bc.List(c, route.page, route.search)
	case route.id == "" && route.action == "":
		bc.RedirectToFirstPage(c)
	case route.invalid:
		renderNotFound(c, "Page")
	case route.action == "":
		bc.Show(c, route.id)
	case route.action == "update":
		bc.EditForm(c, route.id)
	default:
		renderNotFound(c, "Page")
	}
}

// Post dispatches every POST below /books/.
func (bc *BooksController) Post(c *gin.Context) {
	route := routeOf(c)

	switch {
	case route.isList:
		bc.Search(c, route.page, route.search)
	case route.invalid:
		renderNotFound(c, "Page")
	case route.action == "update":
		bc.Update(c, route.id)
	case route.action == "delete":
		bc.Delete(c, route.id)
	default:
		renderNotFound(c, "Page")
	}
}

// routeOf parses the escaped request path, since a search term may hold an
// escaped "/".
func routeOf(c *gin.Context) bookRoute {
	return parseBookRoute(strings.TrimPrefix(c.Request.URL.EscapedPath(), "/books"))
}

// List renders one page of the catalog, optionally filtered by search.
func (bc *BooksController) List(c *gin.Context, rawPage, search string) {
	number, err := catalog.ParsePageNumber(rawPage)
	if err != nil {
		renderBadRequest(c, "Invalid page number")
		return
	}

	query, err := catalog.NewPageQuery(number, search)
	if err != nil {
		renderBadRequest(c, "Invalid page number")
		return
	}

	page, err := bc.store.ListPage(c.Request.Context(), query)
	if err != nil {
		renderInternalError(c, err, "list books")
		return
	}

	pagination, err := catalog.NewPagination(page.Number, page.TotalPages)
	if err != nil {
		renderInternalError(c, err, "paginate books")
		return
	}

	title := "Books"
	if query.HasSearch() {
		title = "Books matching “" + query.Search + "”"
	}

	render(c, http.StatusOK, "books_list", gin.H{
		"Title":      title,
		"Books":      page.Items,
		"Total":      page.Total,
		"Page":       page,
		"Pagination": pagination,
		"Search":     query.Search,
	})
}

// Search turns a search form submission into a redirect to the first page of
// the filtered listing.
func (bc *BooksController) Search(c *gin.Context, rawPage, pathSearch string) {
	if _, err := catalog.ParsePageNumber(rawPage); err != nil {
		renderBadRequest(c, "Invalid page number")
		return
	}

	term, submitted := c.GetPostForm("search")
	if !submitted {
		term = pathSearch
	}
	redirectFound(c, listPath(1, term))
}

// NewForm renders the empty create form.
func (bc *BooksController) NewForm(c *gin.Context) {
	bc.renderForm(c, http.StatusOK, 0, BookForm{}, nil)
}

// Create inserts a book from the submitted form.
func (bc *BooksController) Create(c *gin.Context) {
	var form BookForm
	if err := c.ShouldBind(&form); err != nil {
		renderBadRequest(c, "Invalid form submission")
		return
	}

	book := &entities.Book{}
	if err := form.Apply(book); err != nil {
		bc.renderFormError(c, 0, form, err)
		return
	}

	if err := bc.store.CreateBook(c.Request.Context(), book); err != nil {
		bc.renderFormError(c, 0, form, err)
		return
	}

	bc.record(c, entities.ActivityBookCreated, book)
	setFlash(c, security.FlashSuccess, "Book “"+book.Title+"” added")
	redirectFound(c, bookPath(book.ID))
}

// Show renders a single book.
func (bc *BooksController) Show(c *gin.Context, rawID string) {
	id, ok := parseID(rawID)
	if !ok {
		renderNotFound(c, "Book")
		return
	}

	book, err := bc.store.GetBookByID(c.Request.Context(), id)
	if err != nil {
		renderStoreError(c, err, "get book")
		return
	}

	render(c, http.StatusOK, "book_view", gin.H{
		"Title":   book.Title,
		"Book":    book,
		"History": bc.history(c, book.ID),
	})
}

// history returns the recorded changes of one book. A failing activity store
// only hides the history section.
func (bc *BooksController) history(c *gin.Context, id uint) []entities.ActivityEvent {
	if bc.activity == nil {
		return nil
	}
	events, err := bc.activity.GetEventsForBook(c.Request.Context(), id)
	if err != nil {
		requestLogger(c).WithError(err).WithField("book_id", id).Warn("Failed to load book history")
		return nil
	}
	return events
}

// EditForm renders the update form pre-filled with the stored values.
func (bc *BooksController) EditForm(c *gin.Context, rawID string) {
	id, ok := parseID(rawID)
	if !ok {
		renderNotFound(c, "Book")
		return
	}

	book, err := bc.store.GetBookByID(c.Request.Context(), id)
	if err != nil {
		renderStoreError(c, err, "get book for update")
		return
	}

	bc.renderForm(c, http.StatusOK, book.ID, bookFormFrom(book), nil)
}

// Update applies the submitted form to an existing book.
func (bc *BooksController) Update(c *gin.Context, rawID string) {
	id, ok := parseID(rawID)
	if !ok {
		renderNotFound(c, "Book")
		return
	}

	book, err := bc.store.GetBookByID(c.Request.Context(), id)
	if err != nil {
		renderStoreError(c, err, "get book for update")
		return
	}

	var form BookForm
	if err := c.ShouldBind(&form); err != nil {
		renderBadRequest(c, "Invalid form submission")
		return
	}

	if err := form.Apply(book); err != nil {
		bc.renderFormError(c, id, form, err)
		return
	}

	if err := bc.store.UpdateBook(c.Request.Context(), book); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			renderNotFound(c, "Book")
			return
		}
		bc.renderFormError(c, id, form, err)
		return
	}

	bc.record(c, entities.ActivityBookUpdated, book)
	setFlash(c, security.FlashSuccess, "Book “"+book.Title+"” updated")
	redirectFound(c, bookPath(book.ID))
}

// Delete removes a book and returns to the listing.
func (bc *BooksController) Delete(c *gin.Context, rawID string) {
	id, ok := parseID(rawID)
	if !ok {
		renderNotFound(c, "Book")
		return
	}

	book, err := bc.store.DeleteBook(c.Request.Context(), id)
	if err != nil {
		renderStoreError(c, err, "delete book")
		return
	}

	bc.record(c, entities.ActivityBookDeleted, book)
	setFlash(c, security.FlashSuccess, "Book “"+book.Title+"” deleted")
	redirectFound(c, "/books/")
}

// renderFormError re-renders the form for validation failures and falls back
// to the error page for anything else.
func (bc *BooksController) renderFormError(c *gin.Context, id uint, form BookForm, err error) {
	verrs, ok := validation.AsErrors(err)
	if !ok {
		renderInternalError(c, err, "save book")
		return
	}
	bc.renderForm(c, http.StatusOK, id, form, verrs)
}

func (bc *BooksController) renderForm(c *gin.Context, status int, id uint, form BookForm, errs validation.Errors) {
	name, title, action := "book_new", "New book", "/"
	if id != 0 {
		name, title, action = "book_update", "Edit book", updatePath(id)
	}
	render(c, status, name, gin.H{
		"Title":  title,
		"BookID": id,
		"Action": action,
		"Form":   form,
		"Errors": errs,
	})
}

func (bc *BooksController) record(c *gin.Context, action entities.ActivityAction, book *entities.Book) {
	if bc.activity == nil {
		return
	}
	bc.activity.Record(c.Request.Context(), action, book, requestID(c))
}
