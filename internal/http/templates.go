package http

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/library/internal/catalog"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"listURL":   listPath,
		"bookURL":   bookPath,
		"updateURL": updatePath,
		"deleteURL": deletePath,
		"add": func(a, b int) int {
			return a + b
		},
		"subtract": func(a, b int) int {
			return a - b
		},
		"formatTime": func(t time.Time) string {
			return t.Local().Format("2006-01-02 15:04")
		},
		"pageSize": func() int {
			return catalog.PageSize
		},
	}
}

// loadTemplates parses the page templates from dir, or from the embedded copy
// when dir is empty.
func loadTemplates(dir string) (*template.Template, error) {
	tmpl := template.New("").Funcs(templateFuncs())
	if dir != "" {
		return tmpl.ParseGlob(filepath.Join(dir, "*.html"))
	}
	return tmpl.ParseFS(templatesFS, "templates/*.html")
}

// staticFileSystem serves assets from dir, or the embedded copy when dir is empty.
func staticFileSystem(dir string) (http.FileSystem, error) {
	if dir != "" {
		return gin.Dir(dir, false), nil
	}
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil, err
	}
	return http.FS(sub), nil
}
