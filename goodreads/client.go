package goodreads

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/dghubble/oauth1"
	"github.com/rs/zerolog"
)

const (
	// DefaultBaseURL is the production Goodreads endpoint
	DefaultBaseURL = "https://www.goodreads.com"
	// DefaultPerPage is the fixed page size requested for shelf listings
	DefaultPerPage = 200
)

// Credentials holds the OAuth v1 consumer and access credentials
type Credentials struct {
	APIKey           string
	APISecret        string
	OAuthToken       string
	OAuthTokenSecret string
}

// Client wraps the Goodreads XML API
type Client struct {
	baseURL    string
	httpClient *http.Client
	perPage    int
	logger     zerolog.Logger
}

// Option configures a Client.
type Option func(*clientOptions)

// clientOptions holds configuration options for the Client.
type clientOptions struct {
	baseURL    string
	timeout    time.Duration
	perPage    int
	httpClient *http.Client
}

// WithBaseURL overrides the API base URL. Used in tests.
func WithBaseURL(baseURL string) Option {
	return func(o *clientOptions) {
		o.baseURL = baseURL
	}
}

// WithTimeout sets the per-request HTTP timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) {
		o.timeout = timeout
	}
}

// WithPerPage sets the page size requested for shelf listings.
func WithPerPage(perPage int) Option {
	return func(o *clientOptions) {
		if perPage > 0 {
			o.perPage = perPage
		}
	}
}

// WithHTTPClient replaces the OAuth-signing HTTP client entirely.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(o *clientOptions) {
		o.httpClient = httpClient
	}
}

// NewClient creates a new Goodreads client signing every request with the
// given OAuth v1 credentials
func NewClient(creds Credentials, logger zerolog.Logger, opts ...Option) (*Client, error) {
	if creds.APIKey == "" || creds.APISecret == "" {
		return nil, fmt.Errorf("%w: api key and secret are required", ErrInvalidCredentials)
	}
	if creds.OAuthToken == "" || creds.OAuthTokenSecret == "" {
		return nil, fmt.Errorf("%w: oauth token and token secret are required", ErrInvalidCredentials)
	}

	options := &clientOptions{
		baseURL: DefaultBaseURL,
		timeout: 30 * time.Second,
		perPage: DefaultPerPage,
	}
	for _, opt := range opts {
		opt(options)
	}

	httpClient := options.httpClient
	if httpClient == nil {
		oauthConfig := oauth1.NewConfig(creds.APIKey, creds.APISecret)
		token := oauth1.NewToken(creds.OAuthToken, creds.OAuthTokenSecret)
		httpClient = oauthConfig.Client(oauth1.NoContext, token)
		httpClient.Timeout = options.timeout
	}

	return &Client{
		baseURL:    options.baseURL,
		httpClient: httpClient,
		perPage:    options.perPage,
		logger:     logger,
	}, nil
}

// AuthUserID resolves the id of the user the credentials belong to
func (c *Client) AuthUserID(ctx context.Context) (int64, error) {
	var parsed authUserResponse
	if err := c.get(ctx, "/api/auth_user", nil, &parsed); err != nil {
		return 0, fmt.Errorf("fetching authenticated user: %w", err)
	}
	if parsed.User.ID == 0 {
		return 0, fmt.Errorf("auth_user response contains no user id")
	}
	return parsed.User.ID, nil
}

// ShelfBookIDs returns the ids of the books on the given shelf, in the order
// the API returned them. Reviews whose book id does not parse are skipped.
func (c *Client) ShelfBookIDs(ctx context.Context, userID int64, shelf string) ([]int64, error) {
	params := url.Values{
		"v":        {"2"},
		"id":       {strconv.FormatInt(userID, 10)},
		"shelf":    {shelf},
		"per_page": {strconv.Itoa(c.perPage)},
	}

	var parsed reviewListResponse
	if err := c.get(ctx, "/review/list.xml", params, &parsed); err != nil {
		return nil, fmt.Errorf("fetching shelf %q: %w", shelf, err)
	}

	ids := make([]int64, 0, len(parsed.Reviews.Reviews))
	for _, review := range parsed.Reviews.Reviews {
		if !review.Book.ID.Valid {
			c.logger.Debug().Str("shelf", shelf).Msg("Skipping review with unparseable book id")
			continue
		}
		ids = append(ids, review.Book.ID.Int64)
	}

	c.logger.Debug().Str("shelf", shelf).Int("books", len(ids)).Msg("Fetched shelf")
	return ids, nil
}

// SimilarBooks returns the catalog's similar-books list for a book
func (c *Client) SimilarBooks(ctx context.Context, bookID int64) ([]SimilarBook, error) {
	path := fmt.Sprintf("/book/show/%d.xml", bookID)

	var parsed bookShowResponse
	if err := c.get(ctx, path, nil, &parsed); err != nil {
		return nil, fmt.Errorf("fetching book %d: %w", bookID, err)
	}

	c.logger.Debug().
		Int64("book_id", bookID).
		Int("similar", len(parsed.Book.SimilarBooks)).
		Msg("Fetched similar books")
	return parsed.Book.SimilarBooks, nil
}

// get issues a signed GET and unmarshals the XML body into out
func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	requestURL := c.baseURL + path
	if len(params) > 0 {
		requestURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &APIError{StatusCode: resp.StatusCode, URL: requestURL}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if err := xml.Unmarshal(body, out); err != nil {
		return fmt.Errorf("unmarshalling response: %w", err)
	}

	return nil
}
