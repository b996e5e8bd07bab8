package helpers

import (
	"strconv"
	"strings"
)

// PageURL appends the page query parameter to a listing URL,
// using '&' when the URL already carries a query string.
func PageURL(base string, page int) string {
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + "page=" + strconv.Itoa(page)
}
