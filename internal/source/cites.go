package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/JonMunkholm/wlpa/internal/core"
	"github.com/JonMunkholm/wlpa/internal/logging"
)

const (
	// DefaultCITESBaseURL is the Species+ taxon concepts endpoint.
	DefaultCITESBaseURL = "https://api.speciesplus.net/api/v1/taxon_concepts"
	// DefaultCITESPerPage is the page size requested from Species+.
	DefaultCITESPerPage = 500

	userAgent = "wlpa-species-finder/1.0"
	// maxBodyBytes bounds a single page response.
	maxBodyBytes = 64 << 20
)

// ErrMissingToken is returned before any request when no Species+ token is
// configured.
var ErrMissingToken = errors.New("cites api token is not configured")

// ErrRequestFailed wraps every failed Species+ page request.
var ErrRequestFailed = errors.New("species+ request failed")

// PageStatus is the outcome of one page request.
type PageStatus int

const (
	// PageOK carries results; more pages may follow.
	PageOK PageStatus = iota
	// PageExhausted means the appendix has no more results.
	PageExhausted
	// PageFailed means the request failed; the appendix may be incomplete.
	PageFailed
)

func (s PageStatus) String() string {
	switch s {
	case PageOK:
		return "ok"
	case PageExhausted:
		return "exhausted"
	case PageFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Page is one Species+ page request result.
type Page struct {
	Status  PageStatus
	Records []core.Record
	// Last is set on a PageOK page when pagination metadata shows no
	// further pages.
	Last bool
	Err  error
}

// AppendixOutcome summarizes the pagination of one appendix.
type AppendixOutcome struct {
	Appendix string
	Pages    int // pages that returned results
	Records  int
	Status   PageStatus // PageExhausted or PageFailed
	Err      error
}

// CITESOptions configures a CITESClient.
type CITESOptions struct {
	BaseURL        string
	Token          string
	PerPage        int
	MaxPages       int           // per appendix; 0 means unlimited
	RequestTimeout time.Duration // per request; 0 means no timeout
	HTTPClient     *http.Client
}

// CITESClient pages through the Species+ taxon concepts endpoint and
// reports Schedule IV records per appendix.
type CITESClient struct {
	baseURL    string
	token      string
	perPage    int
	maxPages   int
	timeout    time.Duration
	httpClient *http.Client
}

// NewCITESClient validates opts and returns a client.
// Returns ErrMissingToken when opts.Token is blank.
func NewCITESClient(opts CITESOptions) (*CITESClient, error) {
	token := strings.TrimSpace(opts.Token)
	if token == "" {
		return nil, ErrMissingToken
	}

	base := opts.BaseURL
	if base == "" {
		base = DefaultCITESBaseURL
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("invalid species+ base url: %w", err)
	}

	perPage := opts.PerPage
	if perPage <= 0 {
		perPage = DefaultCITESPerPage
	}

	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.RequestTimeout}
	}

	return &CITESClient{
		baseURL:    base,
		token:      token,
		perPage:    perPage,
		maxPages:   opts.MaxPages,
		timeout:    opts.RequestTimeout,
		httpClient: hc,
	}, nil
}

// Name implements Source.
func (c *CITESClient) Name() string { return "species+ api" }

// Load implements Source. Appendices are fetched in order I, II, III. A
// failed appendix keeps the pages fetched before the failure, adds a
// warning and does not stop the next appendix.
func (c *CITESClient) Load(ctx context.Context) (Batch, error) {
	logger := logging.WithFields(ctx, "source", c.Name())

	batch := Batch{Records: []core.Record{}}
	for _, appendix := range core.Appendices {
		records, outcome := c.FetchAppendix(ctx, appendix)
		batch.Records = append(batch.Records, records...)

		if outcome.Status == PageFailed {
			logger.Warn("species+ appendix incomplete",
				"appendix", appendix,
				"pages", outcome.Pages,
				"records", outcome.Records,
				"error", outcome.Err,
			)
			batch.Warnings = append(batch.Warnings,
				fmt.Sprintf("Species+ appendix %s: partial data after %d page(s): %v", appendix, outcome.Pages, outcome.Err))
			continue
		}
		logger.Info("species+ appendix loaded",
			"appendix", appendix,
			"pages", outcome.Pages,
			"records", outcome.Records,
		)
	}
	return batch, nil
}

// FetchAppendix pages through one appendix until it is exhausted or a
// request fails.
func (c *CITESClient) FetchAppendix(ctx context.Context, appendix string) ([]core.Record, AppendixOutcome) {
	outcome := AppendixOutcome{Appendix: appendix}
	var records []core.Record

	for page := 1; ; page++ {
		if c.maxPages > 0 && page > c.maxPages {
			outcome.Status = PageFailed
			outcome.Err = fmt.Errorf("%w: page limit %d reached", ErrRequestFailed, c.maxPages)
			break
		}

		p := c.FetchPage(ctx, appendix, page)
		if p.Status != PageOK {
			outcome.Status = p.Status
			outcome.Err = p.Err
			break
		}

		outcome.Pages++
		records = append(records, p.Records...)

		if p.Last {
			outcome.Status = PageExhausted
			break
		}
	}

	outcome.Records = len(records)
	return records, outcome
}

// FetchPage requests a single page. It never returns an error directly:
// failures are reported as PageFailed with Err set.
func (c *CITESClient) FetchPage(ctx context.Context, appendix string, page int) Page {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.pageURL(appendix, page), nil)
	if err != nil {
		return failed(appendix, page, err)
	}
	req.Header.Set("X-Authentication-Token", c.token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return failed(appendix, page, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return failed(appendix, page, fmt.Errorf("status %s", resp.Status))
	}

	var body taxonConceptsResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&body); err != nil {
		return failed(appendix, page, fmt.Errorf("decode response: %w", err))
	}

	if len(body.TaxonConcepts) == 0 {
		return Page{Status: PageExhausted}
	}

	records := make([]core.Record, 0, len(body.TaxonConcepts))
	for _, tc := range body.TaxonConcepts {
		if strings.TrimSpace(tc.FullName) == "" {
			continue
		}
		if r, ok := core.NewRecord(core.ScheduleIV, appendix, tc.englishName(), tc.FullName); ok {
			records = append(records, r)
		}
	}

	return Page{
		Status:  PageOK,
		Records: records,
		Last:    body.Pagination.isLast(page, c.perPage),
	}
}

func (c *CITESClient) pageURL(appendix string, page int) string {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(c.perPage))
	q.Set("cites_appendix", appendix)

	sep := "?"
	if strings.Contains(c.baseURL, "?") {
		sep = "&"
	}
	return c.baseURL + sep + q.Encode()
}

func failed(appendix string, page int, err error) Page {
	return Page{
		Status: PageFailed,
		Err:    fmt.Errorf("appendix %s page %d: %w: %w", appendix, page, ErrRequestFailed, err),
	}
}

type taxonConceptsResponse struct {
	Pagination    *pagination    `json:"pagination"`
	TaxonConcepts []taxonConcept `json:"taxon_concepts"`
}

type pagination struct {
	CurrentPage  int `json:"current_page"`
	PerPage      int `json:"per_page"`
	TotalEntries int `json:"total_entries"`
}

// isLast reports whether page is the final page. Without metadata the
// caller keeps paging until an empty page.
func (p *pagination) isLast(page, perPage int) bool {
	if p == nil || p.TotalEntries <= 0 {
		return false
	}
	if p.PerPage > 0 {
		perPage = p.PerPage
	}
	return page*perPage >= p.TotalEntries
}

type taxonConcept struct {
	FullName          string       `json:"full_name"`
	EnglishCommonName string       `json:"english_common_name"`
	CommonNames       []commonName `json:"common_names"`
}

type commonName struct {
	Name     string `json:"name"`
	Language string `json:"language"`
}

// englishName prefers english_common_name, then an English-tagged entry of
// common_names, then the first named entry.
func (tc taxonConcept) englishName() string {
	if name := strings.TrimSpace(tc.EnglishCommonName); name != "" {
		return name
	}
	for _, cn := range tc.CommonNames {
		name := strings.TrimSpace(cn.Name)
		if name != "" && isEnglish(cn.Language) {
			return name
		}
	}
	for _, cn := range tc.CommonNames {
		if name := strings.TrimSpace(cn.Name); name != "" {
			return name
		}
	}
	return ""
}

func isEnglish(lang string) bool {
	switch strings.ToLower(strings.TrimSpace(lang)) {
	case "en", "eng", "english":
		return true
	}
	return false
}
