// Package goodreads provides a client for the Goodreads XML API.
//
// Every request is signed with OAuth v1 using the consumer key/secret and
// access token/secret supplied at construction time. The client exposes the
// three endpoints the recommendation pipeline needs:
//
//   - AuthUserID: resolve the id of the user the credentials belong to
//   - ShelfBookIDs: list the book ids on one of the user's shelves
//   - SimilarBooks: fetch the catalog's "similar books" for a book
//
// Responses are XML documents. Numeric fields that the API occasionally
// leaves empty or malformed (book ids, average ratings) are modeled as
// NullInt64/NullFloat64 rather than failing the whole parse.
//
//	logger := zerolog.New(os.Stderr)
//	client, err := goodreads.NewClient(goodreads.Credentials{
//		APIKey:           "...",
//		APISecret:        "...",
//		OAuthToken:       "...",
//		OAuthTokenSecret: "...",
//	}, logger)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	ctx := context.Background()
//	userID, err := client.AuthUserID(ctx)
package goodreads
