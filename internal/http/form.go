package http

import (
	"strconv"
	"strings"

	"github.com/mrlokans/library/internal/entities"
	"github.com/mrlokans/library/internal/validation"
)

// BookForm holds the raw form values, so a rejected submission is shown back
// exactly as typed.
type BookForm struct {
	Title  string `form:"title"`
	Author string `form:"author"`
	Genre  string `form:"genre"`
	Year   string `form:"year"`
}

func bookFormFrom(book *entities.Book) BookForm {
	return BookForm{
		Title:  book.Title,
		Author: book.Author,
		Genre:  book.Genre,
		Year:   book.YearText(),
	}
}

// Apply copies the form onto book and validates the result. It returns nil or
// validation.Errors covering every invalid field.
func (f BookForm) Apply(book *entities.Book) error {
	book.Title = f.Title
	book.Author = f.Author
	book.Genre = f.Genre

	var errs validation.Errors
	year, ok := parseYear(f.Year)
	if ok {
		book.Year = year
	} else {
		errs.Add("year", "integer", "Year must be a whole number")
	}

	if err := book.Validate(); err != nil {
		verrs, isValidation := validation.AsErrors(err)
		if !isValidation {
			return err
		}
		for _, fe := range verrs {
			if fe.Field == "year" && errs.Has("year") {
				continue
			}
			errs = append(errs, fe)
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// parseYear accepts an empty value as "no year".
func parseYear(raw string) (*int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, true
	}
	year, err := strconv.Atoi(raw)
	if err != nil {
		return nil, false
	}
	return &year, true
}
