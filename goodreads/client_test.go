package goodreads

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCreds() Credentials {
	return Credentials{
		APIKey:           "test-key",
		APISecret:        "test-secret",
		OAuthToken:       "test-token",
		OAuthTokenSecret: "test-token-secret",
	}
}

func TestNewClient(t *testing.T) {
	logger := zerolog.Nop()

	tests := []struct {
		name    string
		creds   Credentials
		wantErr bool
	}{
		{
			name:    "valid credentials",
			creds:   validCreds(),
			wantErr: false,
		},
		{
			name: "missing api key",
			creds: Credentials{
				APISecret:        "s",
				OAuthToken:       "t",
				OAuthTokenSecret: "ts",
			},
			wantErr: true,
		},
		{
			name: "missing api secret",
			creds: Credentials{
				APIKey:           "k",
				OAuthToken:       "t",
				OAuthTokenSecret: "ts",
			},
			wantErr: true,
		},
		{
			name: "missing oauth token",
			creds: Credentials{
				APIKey:           "k",
				APISecret:        "s",
				OAuthTokenSecret: "ts",
			},
			wantErr: true,
		},
		{
			name: "missing oauth token secret",
			creds: Credentials{
				APIKey:     "k",
				APISecret:  "s",
				OAuthToken: "t",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.creds, logger)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidCredentials)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, client)
			assert.Equal(t, DefaultBaseURL, client.baseURL)
			assert.Equal(t, DefaultPerPage, client.perPage)
		})
	}
}

func TestClientOptions(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("with timeout", func(t *testing.T) {
		client, err := NewClient(validCreds(), logger, WithTimeout(5*time.Second))
		require.NoError(t, err)
		assert.Equal(t, 5*time.Second, client.httpClient.Timeout)
	})

	t.Run("with per page", func(t *testing.T) {
		client, err := NewClient(validCreds(), logger, WithPerPage(50))
		require.NoError(t, err)
		assert.Equal(t, 50, client.perPage)
	})

	t.Run("non-positive per page keeps default", func(t *testing.T) {
		client, err := NewClient(validCreds(), logger, WithPerPage(0))
		require.NoError(t, err)
		assert.Equal(t, DefaultPerPage, client.perPage)
	})

	t.Run("with custom http client", func(t *testing.T) {
		customClient := &http.Client{Timeout: 10 * time.Second}
		client, err := NewClient(validCreds(), logger, WithHTTPClient(customClient))
		require.NoError(t, err)
		assert.Equal(t, customClient, client.httpClient)
	})
}

func TestAuthUserID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth_user", r.URL.Path)
		assert.Contains(t, r.Header.Get("Authorization"), `oauth_consumer_key="test-key"`)

		w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>
<GoodreadsResponse>
  <user id="8842281">
    <name>Test Reader</name>
  </user>
</GoodreadsResponse>`))
	}))
	defer server.Close()

	client, err := NewClient(validCreds(), zerolog.Nop(), WithBaseURL(server.URL))
	require.NoError(t, err)

	userID, err := client.AuthUserID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(8842281), userID)
}

func TestShelfBookIDs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/review/list.xml", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("v"))
		assert.Equal(t, "42", r.URL.Query().Get("id"))
		assert.Equal(t, "read", r.URL.Query().Get("shelf"))
		assert.Equal(t, "200", r.URL.Query().Get("per_page"))

		w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>
<GoodreadsResponse>
  <reviews start="1" end="3" total="3">
    <review><book><id>101</id><title>First</title></book></review>
    <review><book><id>not-a-number</id><title>Broken</title></book></review>
    <review><book><id>102</id><title>Second</title></book></review>
  </reviews>
</GoodreadsResponse>`))
	}))
	defer server.Close()

	client, err := NewClient(validCreds(), zerolog.Nop(), WithBaseURL(server.URL))
	require.NoError(t, err)

	ids, err := client.ShelfBookIDs(context.Background(), 42, "read")
	require.NoError(t, err)

	// Order preserved, unparseable id skipped.
	assert.Equal(t, []int64{101, 102}, ids)
}

func TestSimilarBooks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/book/show/101.xml", r.URL.Path)

		w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>
<GoodreadsResponse>
  <book>
    <id>101</id>
    <title>Seed Book</title>
    <similar_books>
      <book>
        <id>5</id>
        <title>Great Pick</title>
        <link>https://example.com/book/5</link>
        <average_rating>4.50</average_rating>
        <authors>
          <author><name>Jane Writer</name></author>
          <author><name>Co Author</name></author>
        </authors>
      </book>
      <book>
        <id>6</id>
        <title>Unrated Pick</title>
        <link>https://example.com/book/6</link>
        <average_rating></average_rating>
        <authors>
          <author><name>Solo Writer</name></author>
        </authors>
      </book>
    </similar_books>
  </book>
</GoodreadsResponse>`))
	}))
	defer server.Close()

	client, err := NewClient(validCreds(), zerolog.Nop(), WithBaseURL(server.URL))
	require.NoError(t, err)

	books, err := client.SimilarBooks(context.Background(), 101)
	require.NoError(t, err)
	require.Len(t, books, 2)

	assert.Equal(t, NullInt64{Int64: 5, Valid: true}, books[0].ID)
	assert.Equal(t, "Great Pick", books[0].Title)
	assert.Equal(t, "https://example.com/book/5", books[0].Link)
	assert.InDelta(t, 4.5, books[0].AverageRating.Float64, 0.001)
	assert.True(t, books[0].AverageRating.Valid)
	assert.Equal(t, []string{"Jane Writer", "Co Author"}, books[0].AuthorNames())

	// Empty rating parses to a missing value, not an error.
	assert.False(t, books[1].AverageRating.Valid)
	assert.Equal(t, -1.0, books[1].AverageRating.Or(-1))
}

func TestNon200Response(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client, err := NewClient(validCreds(), zerolog.Nop(), WithBaseURL(server.URL))
	require.NoError(t, err)

	_, err = client.AuthUserID(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.True(t, apiErr.IsUnauthorized())
	assert.False(t, apiErr.IsNotFound())
}

func TestMalformedXML(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<GoodreadsResponse><user id="))
	}))
	defer server.Close()

	client, err := NewClient(validCreds(), zerolog.Nop(), WithBaseURL(server.URL))
	require.NoError(t, err)

	_, err = client.AuthUserID(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshalling")
}

func TestContextCancellation(t *testing.T) {
	started := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-r.Context().Done()
	}))
	defer server.Close()

	client, err := NewClient(validCreds(), zerolog.Nop(), WithBaseURL(server.URL))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	_, err = client.AuthUserID(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
