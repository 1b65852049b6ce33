package goodreads

import (
	"encoding/xml"
	"strconv"
	"strings"
)

// NullInt64 is an int64 that may be missing. Malformed or empty numeric
// fields in API responses unmarshal to an invalid value instead of an error.
type NullInt64 struct {
	Int64 int64
	Valid bool
}

// UnmarshalXML implements xml.Unmarshaler
func (n *NullInt64) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var raw string
	if err := d.DecodeElement(&raw, &start); err != nil {
		return err
	}
	v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		*n = NullInt64{}
		return nil
	}
	*n = NullInt64{Int64: v, Valid: true}
	return nil
}

// NullFloat64 is a float64 that may be missing, unmarshalled with the same
// rule as NullInt64.
type NullFloat64 struct {
	Float64 float64
	Valid   bool
}

// UnmarshalXML implements xml.Unmarshaler
func (n *NullFloat64) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var raw string
	if err := d.DecodeElement(&raw, &start); err != nil {
		return err
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		*n = NullFloat64{}
		return nil
	}
	*n = NullFloat64{Float64: v, Valid: true}
	return nil
}

// Or returns the value, or fallback when it is missing.
func (n NullFloat64) Or(fallback float64) float64 {
	if n.Valid {
		return n.Float64
	}
	return fallback
}

// Author is a book author as listed in a book detail response
type Author struct {
	Name string `xml:"name"`
}

// SimilarBook is one entry of a book's similar-books list
type SimilarBook struct {
	ID            NullInt64   `xml:"id"`
	Title         string      `xml:"title"`
	Link          string      `xml:"link"`
	AverageRating NullFloat64 `xml:"average_rating"`
	Authors       []Author    `xml:"authors>author"`
}

// AuthorNames returns the author names in listing order.
func (b SimilarBook) AuthorNames() []string {
	names := make([]string, 0, len(b.Authors))
	for _, a := range b.Authors {
		names = append(names, a.Name)
	}
	return names
}

// authUserResponse wraps GET /api/auth_user
type authUserResponse struct {
	XMLName xml.Name `xml:"GoodreadsResponse"`
	User    struct {
		ID int64 `xml:"id,attr"`
	} `xml:"user"`
}

// reviewListResponse wraps GET /review/list.xml
type reviewListResponse struct {
	XMLName xml.Name `xml:"GoodreadsResponse"`
	Reviews struct {
		Reviews []struct {
			Book struct {
				ID NullInt64 `xml:"id"`
			} `xml:"book"`
		} `xml:"review"`
	} `xml:"reviews"`
}

// bookShowResponse wraps GET /book/show/<id>.xml
type bookShowResponse struct {
	XMLName xml.Name `xml:"GoodreadsResponse"`
	Book    struct {
		ID           NullInt64     `xml:"id"`
		Title        string        `xml:"title"`
		SimilarBooks []SimilarBook `xml:"similar_books>book"`
	} `xml:"book"`
}
