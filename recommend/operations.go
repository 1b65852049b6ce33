package recommend

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/andrewroldugin/goodreads-client/goodreads"
)

// DefaultConcurrency bounds the parallel similar-books lookups
const DefaultConcurrency = 4

// Shelf names used by default
const (
	ShelfRead             = "read"
	ShelfCurrentlyReading = "currently-reading"
)

// unratedRank sorts candidates without a parseable rating below every rated
// candidate instead of treating them as 0.0.
const unratedRank = -1.0

// Options contains options for building a recommendation list
type Options struct {
	// Limit caps the number of recommendations returned. Must be positive.
	Limit int
	// Shelf is the shelf seeding the recommendations (default "read")
	Shelf string
	// ExcludeShelf names the shelf whose books are excluded from the
	// result (default "currently-reading")
	ExcludeShelf string
	// Keep optionally narrows the candidate pool. Nil keeps everything.
	Keep func(goodreads.SimilarBook) bool
}

// Operations produces recommendation lists from a Catalog
type Operations struct {
	catalog     Catalog
	logger      zerolog.Logger
	concurrency int
}

// NewOperations creates a new Operations instance
func NewOperations(catalog Catalog, logger zerolog.Logger) *Operations {
	return &Operations{
		catalog:     catalog,
		logger:      logger,
		concurrency: DefaultConcurrency,
	}
}

// SetConcurrency sets the number of parallel similar-books lookups
func (o *Operations) SetConcurrency(n int) {
	if n > 0 {
		o.concurrency = n
	}
}

// Recommend builds the ranked recommendation list: similar books of
// everything on the seed shelf, minus the exclusion shelf, deduplicated by
// id (first seen in shelf order wins), sorted by rating descending and
// truncated to opts.Limit.
//
// Any failed remote call aborts the whole aggregation; partial results are
// never returned. An empty seed shelf yields an empty list and no error.
func (o *Operations) Recommend(ctx context.Context, opts Options) ([]goodreads.SimilarBook, error) {
	if opts.Shelf == "" {
		opts.Shelf = ShelfRead
	}
	if opts.ExcludeShelf == "" {
		opts.ExcludeShelf = ShelfCurrentlyReading
	}

	userID, err := o.catalog.AuthUserID(ctx)
	if err != nil {
		return nil, err
	}
	o.logger.Debug().Int64("user_id", userID).Msg("Resolved authenticated user")

	readIDs, err := o.catalog.ShelfBookIDs(ctx, userID, opts.Shelf)
	if err != nil {
		return nil, err
	}

	excludeIDs, err := o.catalog.ShelfBookIDs(ctx, userID, opts.ExcludeShelf)
	if err != nil {
		return nil, err
	}

	if len(readIDs) == 0 {
		o.logger.Info().Str("shelf", opts.Shelf).Msg("Seed shelf is empty")
		return nil, nil
	}

	excluded := make(map[int64]struct{}, len(excludeIDs))
	for _, id := range excludeIDs {
		excluded[id] = struct{}{}
	}

	perBook, err := o.fetchSimilar(ctx, readIDs)
	if err != nil {
		return nil, err
	}

	// Concatenate in shelf order so the first-seen dedup tie-break does not
	// depend on which lookup finished first.
	seen := make(map[int64]struct{})
	var pool []goodreads.SimilarBook
	for _, books := range perBook {
		for _, book := range books {
			if !book.ID.Valid {
				o.logger.Debug().Str("title", book.Title).Msg("Dropping candidate with unparseable id")
				continue
			}
			id := book.ID.Int64
			if _, ok := excluded[id]; ok {
				continue
			}
			if _, ok := seen[id]; ok {
				continue
			}
			if opts.Keep != nil && !opts.Keep(book) {
				continue
			}
			seen[id] = struct{}{}
			pool = append(pool, book)
		}
	}

	// Stable: equal ratings keep their first-seen relative order.
	sort.SliceStable(pool, func(i, j int) bool {
		return pool[i].AverageRating.Or(unratedRank) > pool[j].AverageRating.Or(unratedRank)
	})

	if opts.Limit > 0 && len(pool) > opts.Limit {
		pool = pool[:opts.Limit]
	}

	o.logger.Info().
		Int("seed_books", len(readIDs)).
		Int("excluded", len(excluded)).
		Int("recommendations", len(pool)).
		Msg("Built recommendation list")
	return pool, nil
}

// fetchSimilar looks up similar books for every seed id with bounded
// parallelism. Results are slotted by seed index so callers see them in
// shelf order regardless of completion order. The first failure cancels the
// remaining lookups.
func (o *Operations) fetchSimilar(ctx context.Context, bookIDs []int64) ([][]goodreads.SimilarBook, error) {
	perBook := make([][]goodreads.SimilarBook, len(bookIDs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)

	for i, id := range bookIDs {
		i, id := i, id
		g.Go(func() error {
			books, err := o.catalog.SimilarBooks(ctx, id)
			if err != nil {
				return fmt.Errorf("similar books for %d: %w", id, err)
			}
			perBook[i] = books
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return perBook, nil
}
