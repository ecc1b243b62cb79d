package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/shelfshare/shelfshare/errs"
)

const openLibraryBase = "https://openlibrary.org/search.json"

// spotlightQuery is the fixed broad term behind the "spotlight" shelf.
const spotlightQuery = "A"

// spotlightLimit caps the spotlight shelf.
const spotlightLimit = 100

// DefaultCoverImage is served when a catalog record has no cover.
const DefaultCoverImage = "/static/default-cover.svg"

// CatalogBook is the display shape a catalog record is mapped into.
type CatalogBook struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	Genre       string `json:"genre"`
	Description string `json:"description"`
	CoverImage  string `json:"coverImage"`
	PDFLink     string `json:"pdfLink,omitempty"`
}

// openLibrarySearchResp is the response from GET /search.json?title=...
type openLibrarySearchResp struct {
	Docs []struct {
		Key              string   `json:"key"`
		Title            string   `json:"title"`
		AuthorName       []string `json:"author_name"`
		FirstPublishYear int      `json:"first_publish_year"`
		CoverI           int64    `json:"cover_i"`
		HasFulltext      bool     `json:"has_fulltext"`
	} `json:"docs"`
}

// OpenLibraryClient queries the Open Library search API. The short timeout
// keeps a hung upstream from pinning request handlers.
type OpenLibraryClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewOpenLibraryClient() *OpenLibraryClient {
	return &OpenLibraryClient{
		BaseURL:    openLibraryBase,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Search queries the catalog by title and maps each record into the
// display shape.
func (c *OpenLibraryClient) Search(ctx context.Context, title string) ([]CatalogBook, error) {
	q := url.Values{}
	q.Set("title", title)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("open library returned %d", resp.StatusCode)
	}
	var data openLibrarySearchResp
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, err
	}

	books := make([]CatalogBook, 0, len(data.Docs))
	for _, doc := range data.Docs {
		book := CatalogBook{
			ID:          doc.Key,
			Title:       doc.Title,
			Author:      "Unknown",
			Genre:       "Not Available",
			Description: "No description",
			CoverImage:  DefaultCoverImage,
		}
		if len(doc.AuthorName) > 0 {
			book.Author = doc.AuthorName[0]
		}
		if doc.FirstPublishYear != 0 {
			book.Description = fmt.Sprintf("First Published: %d", doc.FirstPublishYear)
		}
		if doc.CoverI != 0 {
			book.CoverImage = fmt.Sprintf("https://covers.openlibrary.org/b/id/%d-L.jpg", doc.CoverI)
		}
		if doc.HasFulltext {
			book.PDFLink = "https://openlibrary.org" + doc.Key + "/fulltext"
		}
		books = append(books, book)
	}
	return books, nil
}

// CatalogResult is one aggregated search: the query's matches plus the
// spotlight shelf.
type CatalogResult struct {
	Matches   []CatalogBook
	Spotlight []CatalogBook
}

// SearchCatalog issues the title query and the fixed spotlight query. The
// lookups are independent but either failing aborts the whole operation;
// there is no partial rendering.
func (c *OpenLibraryClient) SearchCatalog(ctx context.Context, title string) (*CatalogResult, error) {
	matches, err := c.Search(ctx, title)
	if err != nil {
		return nil, &errs.UpstreamError{Err: err}
	}
	spotlight, err := c.Search(ctx, spotlightQuery)
	if err != nil {
		return nil, &errs.UpstreamError{Err: err}
	}
	if len(spotlight) > spotlightLimit {
		spotlight = spotlight[:spotlightLimit]
	}
	return &CatalogResult{Matches: matches, Spotlight: spotlight}, nil
}
