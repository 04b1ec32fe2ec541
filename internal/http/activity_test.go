package http

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/library/internal/entities"
)

func TestActivityPage(t *testing.T) {
	t.Run("lists catalog changes newest first", func(t *testing.T) {
		app := setupTestApp(t)

		require.Equal(t, http.StatusFound, app.postForm("/", bookForm("Dune", "Frank Herbert", "", "")).Code)
		require.Equal(t, http.StatusFound, app.postForm("/books/1/delete", url.Values{}).Code)

		w := app.get("/activity")
		require.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, "by Frank Herbert")
		assert.Contains(t, body, `class="action-deleted"`)
		assert.Less(t, strings.Index(body, "action-deleted"), strings.Index(body, "action-created"))
	})

	t.Run("empty log", func(t *testing.T) {
		app := setupTestApp(t)

		w := app.get("/activity")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "No activity yet.")
	})

	t.Run("paginates by 25", func(t *testing.T) {
		app := setupTestApp(t)
		ctx := context.Background()
		for i := 1; i <= 30; i++ {
			app.activity.Record(ctx, entities.ActivityBookCreated, &entities.Book{ID: uint(i), Title: fmt.Sprintf("Title %02d", i), Author: "A"}, "")
		}

		first := app.get("/activity")
		require.Equal(t, http.StatusOK, first.Code)
		assert.Contains(t, first.Body.String(), "Title 30")
		assert.NotContains(t, first.Body.String(), "Title 05")
		assert.Contains(t, first.Body.String(), `href="/activity?page=2"`)

		second := app.get("/activity?page=2")
		require.Equal(t, http.StatusOK, second.Code)
		assert.Contains(t, second.Body.String(), "Title 05")
		assert.Contains(t, second.Body.String(), "Title 01")
	})

	t.Run("invalid page", func(t *testing.T) {
		app := setupTestApp(t)

		assert.Equal(t, http.StatusBadRequest, app.get("/activity?page=0").Code)
		assert.Equal(t, http.StatusBadRequest, app.get("/activity?page=x").Code)
	})
}
