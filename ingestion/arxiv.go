package ingestion

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/poiesic/scholarit/core"
)

// DefaultArxivBaseURL is the public arXiv Atom query endpoint.
const DefaultArxivBaseURL = "http://export.arxiv.org/api/query"

const defaultFetchTimeout = 30 * time.Second

var versionSuffix = regexp.MustCompile(`v\d+$`)

// ArxivRequest describes one metadata query against the arXiv API.
type ArxivRequest struct {
	// Query is the free-text search expression, matched against all fields.
	Query string
	// Category optionally scopes the query to one arXiv category, e.g. "cs.LG".
	Category string
	// Start is the zero-based result offset, for paging.
	Start int
	// MaxResults bounds the number of entries returned. arXiv caps a single
	// page at 2000; small pages are kinder to the API.
	MaxResults int
}

// ArxivClient fetches paper metadata from the arXiv Atom API.
type ArxivClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// ArxivOption configures an ArxivClient.
type ArxivOption func(*ArxivClient)

// WithArxivBaseURL overrides the API endpoint, mainly for tests.
func WithArxivBaseURL(baseURL string) ArxivOption {
	return func(c *ArxivClient) {
		c.baseURL = baseURL
	}
}

// WithArxivHTTPClient sets a custom HTTP client.
func WithArxivHTTPClient(httpClient *http.Client) ArxivOption {
	return func(c *ArxivClient) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithArxivLogger sets a custom logger.
// Default is slog.Default().
func WithArxivLogger(logger *slog.Logger) ArxivOption {
	return func(c *ArxivClient) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewArxivClient creates a client for the arXiv Atom API.
func NewArxivClient(opts ...ArxivOption) *ArxivClient {
	c := &ArxivClient{
		baseURL:    DefaultArxivBaseURL,
		httpClient: &http.Client{Timeout: defaultFetchTimeout},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Atom feed shapes, limited to the fields ingestion needs.
type atomFeed struct {
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	ID         string `xml:"id"`
	Title      string `xml:"title"`
	Summary    string `xml:"summary"`
	Published  string `xml:"published"`
	Authors    []struct {
		Name string `xml:"name"`
	} `xml:"author"`
	Categories []struct {
		Term string `xml:"term,attr"`
	} `xml:"category"`
}

// Search runs one query page and converts the Atom entries to paper records.
// Entries that cannot be converted are logged and skipped.
func (c *ArxivClient) Search(ctx context.Context, req ArxivRequest) ([]*core.Paper, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, fmt.Errorf("arxiv query required")
	}

	expr := "all:" + query
	if req.Category != "" {
		expr += " AND cat:" + req.Category
	}

	maxResults := req.MaxResults
	if maxResults <= 0 {
		maxResults = 10
	}

	values := url.Values{}
	values.Set("search_query", expr)
	values.Set("start", fmt.Sprintf("%d", req.Start))
	values.Set("max_results", fmt.Sprintf("%d", maxResults))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+values.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("querying arxiv: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arxiv query returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var feed atomFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("parsing arxiv feed: %w", err)
	}

	papers := make([]*core.Paper, 0, len(feed.Entries))
	for _, entry := range feed.Entries {
		paper, err := entryToPaper(entry)
		if err != nil {
			c.logger.Warn("skipping malformed arxiv entry", "id", entry.ID, "err", err)
			continue
		}
		papers = append(papers, paper)
	}

	c.logger.Debug("fetched arxiv page",
		"query", query, "start", req.Start, "papers", len(papers))
	return papers, nil
}

func entryToPaper(entry atomEntry) (*core.Paper, error) {
	arxivID := arxivIDFromEntryID(entry.ID)
	if arxivID == "" {
		return nil, fmt.Errorf("entry has no usable id")
	}

	title := collapseWhitespace(entry.Title)
	if title == "" {
		return nil, fmt.Errorf("entry has no title")
	}

	published, err := time.Parse(time.RFC3339, entry.Published)
	if err != nil {
		return nil, fmt.Errorf("parsing published date: %w", err)
	}

	authors := make([]string, 0, len(entry.Authors))
	for _, a := range entry.Authors {
		if name := strings.TrimSpace(a.Name); name != "" {
			authors = append(authors, name)
		}
	}

	categories := make([]string, 0, len(entry.Categories))
	for _, c := range entry.Categories {
		if c.Term != "" {
			categories = append(categories, c.Term)
		}
	}

	return &core.Paper{
		ArxivID:    arxivID,
		Title:      title,
		Authors:    authors,
		Abstract:   collapseWhitespace(entry.Summary),
		Categories: categories,
		Published:  published.UTC(),
		SourceURL:  "https://arxiv.org/abs/" + arxivID,
	}, nil
}

// arxivIDFromEntryID extracts the bare id from an Atom entry id such as
// "http://arxiv.org/abs/2101.00001v2".
func arxivIDFromEntryID(entryID string) string {
	entryID = strings.TrimSpace(entryID)
	if idx := strings.LastIndex(entryID, "/abs/"); idx >= 0 {
		entryID = entryID[idx+len("/abs/"):]
	}
	return versionSuffix.ReplaceAllString(entryID, "")
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
