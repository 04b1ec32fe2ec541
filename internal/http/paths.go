package http

import (
	"net/url"
	"strconv"
	"strings"
)

// listPath is the URL of a list page, with the search term as an escaped
// trailing path segment.
func listPath(page int, search string) string {
	p := "/books/page" + strconv.Itoa(page)
	if search = strings.TrimSpace(search); search != "" {
		p += "/" + url.PathEscape(search)
	}
	return p
}

func bookPath(id uint) string {
	return "/books/" + strconv.FormatUint(uint64(id), 10)
}

func updatePath(id uint) string {
	return bookPath(id) + "/update"
}

func deletePath(id uint) string {
	return bookPath(id) + "/delete"
}

// bookRoute is the parsed remainder of a /books/... URL.
type bookRoute struct {
	page    string // digits after "page", set for list routes
	isList  bool
	search  string // unescaped search term of a list route
	id      string // record id of a record route
	action  string // "", "update" or "delete"
	invalid bool   // more segments than any route accepts
}

// parseBookRoute splits the escaped path below /books/. The search term may
// contain an escaped "/" so splitting happens before unescaping.
func parseBookRoute(escapedRest string) bookRoute {
	escapedRest = strings.TrimPrefix(escapedRest, "/")

	first, rest, _ := strings.Cut(escapedRest, "/")
	if number, ok := strings.CutPrefix(first, "page"); ok {
		search, err := url.PathUnescape(strings.TrimSuffix(rest, "/"))
		if err != nil {
			search = rest
		}
		return bookRoute{isList: true, page: number, search: strings.TrimSpace(search)}
	}

	action, extra, _ := strings.Cut(strings.TrimSuffix(rest, "/"), "/")
	return bookRoute{id: first, action: action, invalid: extra != ""}
}
