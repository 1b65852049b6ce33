package recommend

import (
	"fmt"
	"strings"

	"github.com/andrewroldugin/goodreads-client/goodreads"
)

// FormatRecommendations formats a recommendation list for console display,
// one block per book:
//
//	#1
//	"Title" by Author One, Author Two
//	More: https://...
func FormatRecommendations(books []goodreads.SimilarBook) string {
	var sb strings.Builder

	for i, book := range books {
		fmt.Fprintf(&sb, "#%d\n", i+1)
		fmt.Fprintf(&sb, "\"%s\" by %s\n", book.Title, strings.Join(book.AuthorNames(), ", "))
		fmt.Fprintf(&sb, "More: %s\n\n", book.Link)
	}

	return sb.String()
}
