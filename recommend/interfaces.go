package recommend

import (
	"context"

	"github.com/andrewroldugin/goodreads-client/goodreads"
)

// Catalog is the remote book catalog the pipeline reads from.
// *goodreads.Client satisfies it; tests substitute a stub.
type Catalog interface {
	// AuthUserID resolves the id of the authenticated user
	AuthUserID(ctx context.Context) (int64, error)

	// ShelfBookIDs lists the book ids on one of the user's shelves
	ShelfBookIDs(ctx context.Context, userID int64, shelf string) ([]int64, error)

	// SimilarBooks fetches the catalog's similar-books list for a book
	SimilarBooks(ctx context.Context, bookID int64) ([]goodreads.SimilarBook, error)
}
