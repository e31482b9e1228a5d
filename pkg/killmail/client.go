package killmail

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/echoes-intel/playint/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/sync/errgroup"
)

// DefaultPageCap number of pages requested per query
const DefaultPageCap = 10

// Page fetch errors
var (
	ErrUpstreamStatus = errors.New("killmail API returned non-2xx status")
	ErrEmptyName      = errors.New("killmail query name is empty")
)

// Page outcomes reported to prometheus
const (
	outcomeOK         = "ok"
	outcomeTransport  = "transport_error"
	outcomeStatus     = "status_error"
	outcomeParseError = "parse_error"
)

var pageFetchTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "killmail_page_fetch_total",
		Help: "Killmail API page fetches by direction and outcome",
	},
	[]string{"direction", "outcome"},
)

// Record one CSV row keyed by header column
type Record map[string]string

// Query selects killmails by player name on one side of the kill
type Query struct {
	Direction string // killer | victim
	Name      string
}

// Client fetches paginated CSV killmail listings
type Client struct {
	baseURL    string
	pageCap    int
	httpClient *http.Client
}

// NewClient creates a killmail API client. timeout bounds each page request.
func NewClient(baseURL string, pageCap int, timeout time.Duration) *Client {
	if pageCap < 1 {
		pageCap = DefaultPageCap
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		pageCap: pageCap,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// PageURL returns the URL of one result page
func (c *Client) PageURL(q Query, page int) string {
	return fmt.Sprintf("%s?%s_name=%s&page=%d", c.baseURL, q.Direction, url.QueryEscape(q.Name), page)
}

// FetchAll requests pages 1..pageCap concurrently and concatenates the rows of
// every page that succeeded. A failing page is logged and contributes nothing.
func (c *Client) FetchAll(ctx context.Context, q Query) ([]Record, error) {
	if strings.TrimSpace(q.Name) == "" {
		return nil, ErrEmptyName
	}

	log := logger.WithComponent("killmail")
	pages := make([][]Record, c.pageCap)

	var g errgroup.Group
	for i := 0; i < c.pageCap; i++ {
		page := i + 1
		g.Go(func() error {
			records, outcome, err := c.fetchPage(ctx, q, page)
			pageFetchTotal.WithLabelValues(q.Direction, outcome).Inc()
			if err != nil {
				log.Warn().Err(err).
					Str("direction", q.Direction).
					Int("page", page).
					Str("outcome", outcome).
					Msg("killmail page dropped")
				return nil
			}
			pages[page-1] = records
			return nil
		})
	}
	_ = g.Wait()

	var all []Record
	for _, p := range pages {
		all = append(all, p...)
	}
	return all, nil
}

func (c *Client) fetchPage(ctx context.Context, q Query, page int) ([]Record, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.PageURL(q, page), nil)
	if err != nil {
		return nil, outcomeTransport, err
	}
	req.Header.Set("Accept", "text/csv")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, outcomeTransport, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, outcomeStatus, fmt.Errorf("%w: %d", ErrUpstreamStatus, resp.StatusCode)
	}

	records, err := ParseCSV(resp.Body)
	if err != nil {
		return nil, outcomeParseError, err
	}
	return records, outcomeOK, nil
}

// ParseCSV reads a CSV document with a header row into records.
// Blank lines are skipped; a row whose column count differs from the header is an error.
func ParseCSV(r io.Reader) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 0

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	var records []Record
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}
		rec := make(Record, len(header))
		for i, col := range header {
			rec[col] = fields[i]
		}
		records = append(records, rec)
	}
	return records, nil
}
