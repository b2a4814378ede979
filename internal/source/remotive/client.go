package remotive

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/mkoval/jobscout/internal/jobs"
	"github.com/mkoval/jobscout/internal/source"
)

const (
	apiURL    = "https://remotive.com/api"
	jobsPath  = "/remote-jobs"
	userAgent = "jobscout/1.0"
	// Remotive caps results per request.
	maxLimit = 100
)

// Client fetches remote job listings from the Remotive API.
type Client struct {
	HTTPClient *http.Client
	APIURL     string
	UserAgent  string
	logger     *zap.Logger
}

var _ source.Provider = (*Client)(nil)

func New(logger *zap.Logger) *Client {
	return &Client{
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
		APIURL:     apiURL,
		UserAgent:  userAgent,
		logger:     logger,
	}
}

func (c *Client) Name() string { return jobs.SourceRemotive }

type rawJob struct {
	ID                        int    `json:"id"`
	Title                     string `json:"title"`
	CompanyName               string `json:"company_name"`
	CandidateRequiredLocation string `json:"candidate_required_location"`
	Description               string `json:"description"`
	URL                       string `json:"url"`
	Salary                    string `json:"salary"`
	PublicationDate           string `json:"publication_date"`
	Category                  string `json:"category"`
}

// FetchJobs queries the Remotive API and returns normalized postings.
// Records that fail normalization are logged and skipped, never aborting the
// fetch.
func (c *Client) FetchJobs(ctx context.Context, query string, limit int) (*jobs.Jobs, error) {
	if limit <= 0 || limit > maxLimit {
		limit = maxLimit
	}

	q := url.Values{}
	q.Set("search", query)
	q.Set("limit", strconv.Itoa(limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.APIURL+jobsPath, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", "application/json")
	req.URL.RawQuery = q.Encode()

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("remotive request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("remotive api returned status %s", resp.Status)
	}

	var payload struct {
		Jobs []map[string]any `json:"jobs"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode remotive response: %w", err)
	}

	result := &jobs.Jobs{}
	for _, item := range payload.Jobs {
		job, err := c.normalize(item)
		if err != nil {
			c.logger.Warn("skipping remotive job", zap.Error(err))
			continue
		}
		result.Append(job)
	}

	c.logger.Debug("fetched jobs from remotive", zap.Int("count", result.Len()))
	return result, nil
}

func (c *Client) normalize(item map[string]any) (*jobs.Job, error) {
	var raw rawJob
	cfg := &mapstructure.DecoderConfig{
		Result:           &raw,
		TagName:          "json",
		WeaklyTypedInput: true,
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(item); err != nil {
		return nil, fmt.Errorf("decode remotive job: %w", err)
	}

	if raw.ID == 0 {
		return nil, fmt.Errorf("remotive job has no id")
	}

	description := stripHTML(raw.Description)

	var salary *jobs.SalaryRange
	if text := strings.TrimSpace(raw.Salary); text != "" && !strings.EqualFold(text, "n/a") {
		salary = &jobs.SalaryRange{Text: text}
	}

	postedAt := time.Now()
	if raw.PublicationDate != "" {
		if parsed, err := time.Parse(time.RFC3339, raw.PublicationDate); err == nil {
			postedAt = parsed
		} else if parsed, err := time.Parse("2006-01-02T15:04:05", raw.PublicationDate); err == nil {
			postedAt = parsed
		}
	}

	skills := source.ExtractSkills(description)
	skills = source.AppendUnique(skills, raw.Category)

	location := strings.TrimSpace(raw.CandidateRequiredLocation)
	if location == "" {
		location = "Remote"
	}

	return &jobs.Job{
		ID:             fmt.Sprintf("remotive_%d", raw.ID),
		Title:          strings.TrimSpace(raw.Title),
		Company:        strings.TrimSpace(raw.CompanyName),
		Location:       location,
		Description:    description,
		SalaryRange:    salary,
		RequiredSkills: skills,
		Source:         jobs.SourceRemotive,
		PostedAt:       postedAt,
		URL:            strings.TrimSpace(raw.URL),
	}, nil
}

// stripHTML extracts plain text from the HTML descriptions Remotive serves.
func stripHTML(html string) string {
	if html == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return strings.TrimSpace(html)
	}
	return strings.TrimSpace(strings.Join(strings.Fields(doc.Text()), " "))
}
