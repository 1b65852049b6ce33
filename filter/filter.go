// Package filter compiles user-supplied expressions into predicates over
// recommendation candidates using the expr language.
//
// The environment exposes per-candidate variables:
//
//	Title     string    book title
//	Link      string    catalog URL
//	Rating    float64   average rating, -1 when missing
//	HasRating bool      whether the rating parsed
//	Authors   []string  author names
//
// Example expressions:
//
//	Rating >= 4.0
//	HasRating && "Neil Gaiman" in Authors
//	Title contains "Dragon"
package filter

import (
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/andrewroldugin/goodreads-client/goodreads"
)

// Predicate decides whether a candidate stays in the pool
type Predicate func(goodreads.SimilarBook) bool

// Compile compiles an expression into a Predicate. Candidates for which the
// expression fails to evaluate are kept out of the result.
func Compile(expression string) (Predicate, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "empty expression",
		}
	}

	program, err := expr.Compile(expression,
		expr.AllowUndefinedVariables(),
		expr.AsBool(), // Ensure boolean result
	)
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Err:        err,
		}
	}

	return func(book goodreads.SimilarBook) bool {
		return evaluate(program, book)
	}, nil
}

func evaluate(program *vm.Program, book goodreads.SimilarBook) bool {
	env := map[string]any{
		"Title":     book.Title,
		"Link":      book.Link,
		"Rating":    book.AverageRating.Or(-1),
		"HasRating": book.AverageRating.Valid,
		"Authors":   book.AuthorNames(),
	}

	out, err := expr.Run(program, env)
	if err != nil {
		return false
	}

	keep, ok := out.(bool)
	return ok && keep
}
