package adzuna

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/mkoval/jobscout/internal/jobs"
	"github.com/mkoval/jobscout/internal/source"
)

const (
	apiURL         = "https://api.adzuna.com/v1/api"
	userAgent      = "jobscout/1.0"
	defaultCountry = "gb"
	// Adzuna caps results per page.
	maxLimit = 50
)

// Client fetches job listings from the Adzuna search API.
type Client struct {
	HTTPClient *http.Client
	APIURL     string
	UserAgent  string

	appID   string
	appKey  string
	country string
	logger  *zap.Logger
}

var _ source.Provider = (*Client)(nil)

func New(appID, appKey, country string, logger *zap.Logger) *Client {
	if country = strings.TrimSpace(strings.ToLower(country)); country == "" {
		country = defaultCountry
	}
	return &Client{
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
		APIURL:     apiURL,
		UserAgent:  userAgent,
		appID:      appID,
		appKey:     appKey,
		country:    country,
		logger:     logger,
	}
}

func (c *Client) Name() string { return jobs.SourceAdzuna }

type rawJob struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Company struct {
		DisplayName string `json:"display_name"`
	} `json:"company"`
	Location struct {
		DisplayName string `json:"display_name"`
	} `json:"location"`
	Description    string  `json:"description"`
	RedirectURL    string  `json:"redirect_url"`
	SalaryMin      float64 `json:"salary_min"`
	SalaryMax      float64 `json:"salary_max"`
	SalaryCurrency string  `json:"salary_currency"`
	Created        string  `json:"created"`
	Category       struct {
		Label string `json:"label"`
	} `json:"category"`
	ContractTime string `json:"contract_time"`
}

// FetchJobs queries the Adzuna search API and returns normalized postings.
func (c *Client) FetchJobs(ctx context.Context, query string, limit int) (*jobs.Jobs, error) {
	if limit <= 0 || limit > maxLimit {
		limit = maxLimit
	}

	q := url.Values{}
	q.Set("app_id", c.appID)
	q.Set("app_key", c.appKey)
	q.Set("what", query)
	q.Set("results_per_page", strconv.Itoa(limit))
	q.Set("content-type", "application/json")

	endpoint := fmt.Sprintf("%s/jobs/%s/search/1", c.APIURL, c.country)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", "application/json")
	req.URL.RawQuery = q.Encode()

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("adzuna request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("adzuna api returned status %s", resp.Status)
	}

	var payload struct {
		Results []map[string]any `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode adzuna response: %w", err)
	}

	result := &jobs.Jobs{}
	for _, item := range payload.Results {
		job, err := c.normalize(item)
		if err != nil {
			c.logger.Warn("skipping adzuna job", zap.Error(err))
			continue
		}
		result.Append(job)
	}

	c.logger.Debug("fetched jobs from adzuna", zap.Int("count", result.Len()))
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
		return nil, fmt.Errorf("decode adzuna job: %w", err)
	}

	if strings.TrimSpace(raw.ID) == "" {
		return nil, fmt.Errorf("adzuna job has no id")
	}

	postedAt := time.Now()
	if raw.Created != "" {
		if parsed, err := time.Parse(time.RFC3339, raw.Created); err == nil {
			postedAt = parsed
		}
	}

	skills := source.ExtractSkills(raw.Description)
	skills = source.AppendUnique(skills, raw.Category.Label)
	skills = source.AppendUnique(skills, raw.ContractTime)

	location := strings.TrimSpace(raw.Location.DisplayName)
	if location == "" {
		location = "Unknown"
	}

	return &jobs.Job{
		ID:             "adzuna_" + raw.ID,
		Title:          strings.TrimSpace(raw.Title),
		Company:        strings.TrimSpace(raw.Company.DisplayName),
		Location:       location,
		Description:    strings.TrimSpace(raw.Description),
		SalaryRange:    formatSalary(raw.SalaryMin, raw.SalaryMax, raw.SalaryCurrency),
		RequiredSkills: skills,
		Source:         jobs.SourceAdzuna,
		PostedAt:       postedAt,
		URL:            strings.TrimSpace(raw.RedirectURL),
	}, nil
}

func formatSalary(min, max float64, currency string) *jobs.SalaryRange {
	if min <= 0 && max <= 0 {
		return nil
	}
	if currency = strings.TrimSpace(currency); currency == "" {
		currency = "GBP"
	}

	salary := &jobs.SalaryRange{Min: min, Max: max, Currency: currency}
	switch {
	case min > 0 && max > 0:
		salary.Text = fmt.Sprintf("%s %.0f - %.0f", currency, min, max)
	case min > 0:
		salary.Text = fmt.Sprintf("%s %.0f+", currency, min)
	default:
		salary.Text = fmt.Sprintf("up to %s %.0f", currency, max)
	}
	return salary
}
