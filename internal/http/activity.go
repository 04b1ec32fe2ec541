package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/library/internal/activity"
	"github.com/mrlokans/library/internal/catalog"
)

type ActivityController struct {
	reader ActivityReader
}

func NewActivityController(reader ActivityReader) *ActivityController {
	return &ActivityController{reader: reader}
}

// ActivityPage renders the activity log, newest first.
func (ac *ActivityController) ActivityPage(c *gin.Context) {
	number := 1
	if raw := c.Query("page"); raw != "" {
		n, err := catalog.ParsePageNumber(raw)
		if err != nil {
			renderBadRequest(c, "Invalid page number")
			return
		}
		number = n
	}

	query, err := catalog.NewPageQueryWithSize(number, activity.DefaultPageSize, "")
	if err != nil {
		renderBadRequest(c, "Invalid page number")
		return
	}

	events, total, err := ac.reader.GetEvents(c.Request.Context(), query.Limit(), query.Offset())
	if err != nil {
		renderInternalError(c, err, "list activity")
		return
	}

	pagination, err := catalog.NewPagination(number, catalog.TotalPages(total, query.Size))
	if err != nil {
		renderInternalError(c, err, "paginate activity")
		return
	}

	render(c, http.StatusOK, "activity", gin.H{
		"Title":      "Activity",
		"Events":     events,
		"Total":      total,
		"Pagination": pagination,
	})
}
