package adzuna

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

const adzunaPayload = `{
	"results": [
		{
			"id": "5001",
			"title": "Backend Engineer",
			"company": {"display_name": "Initech"},
			"location": {"display_name": "London, UK"},
			"description": "Go and Kubernetes experience required.",
			"redirect_url": "https://adzuna.example/5001",
			"salary_min": 50000,
			"salary_max": 60000,
			"created": "2025-08-10T09:00:00Z",
			"category": {"label": "IT Jobs"},
			"contract_time": "full_time"
		},
		{
			"title": "Record without id"
		}
	]
}`

func TestFetchJobs(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("app_id") != "id123" || q.Get("app_key") != "key456" {
			t.Errorf("missing credentials in query: %v", q)
		}
		if q.Get("what") != "golang" {
			t.Errorf("unexpected what: %q", q.Get("what"))
		}
		if r.URL.Path != "/jobs/de/search/1" {
			t.Errorf("unexpected path: %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(adzunaPayload))
	}))
	defer server.Close()

	client := New("id123", "key456", "DE", zap.NewNop())
	client.APIURL = server.URL

	result, err := client.FetchJobs(context.Background(), "golang", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Len() != 1 {
		t.Fatalf("expected 1 job, got %d", result.Len())
	}

	job := result.FindByID("adzuna_5001")
	if job == nil {
		t.Fatalf("expected adzuna_5001, got %v", result.IDs())
	}
	if job.Company != "Initech" {
		t.Fatalf("unexpected company: %q", job.Company)
	}
	if job.SalaryRange == nil || job.SalaryRange.Text != "GBP 50000 - 60000" {
		t.Fatalf("unexpected salary: %+v", job.SalaryRange)
	}
	if job.SalaryRange.Min != 50000 || job.SalaryRange.Max != 60000 {
		t.Fatalf("unexpected salary bounds: %+v", job.SalaryRange)
	}
	if len(job.RequiredSkills) == 0 {
		t.Fatalf("expected skills extracted from the description")
	}
}

func TestFetchJobsAPIError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer server.Close()

	client := New("id", "key", "", zap.NewNop())
	client.APIURL = server.URL

	if _, err := client.FetchJobs(context.Background(), "golang", 10); err == nil {
		t.Fatalf("expected error on non-200 response")
	}
}

func TestDefaultCountry(t *testing.T) {
	t.Parallel()

	client := New("id", "key", "  ", zap.NewNop())
	if client.country != "gb" {
		t.Fatalf("expected default country gb, got %q", client.country)
	}
}

func TestFormatSalary(t *testing.T) {
	t.Parallel()

	if got := formatSalary(0, 0, "EUR"); got != nil {
		t.Fatalf("expected nil for zero salary, got %+v", got)
	}

	got := formatSalary(40000, 0, "")
	if got == nil || got.Text != "GBP 40000+" {
		t.Fatalf("unexpected open-ended salary: %+v", got)
	}

	got = formatSalary(0, 70000, "USD")
	if got == nil || got.Text != "up to USD 70000" {
		t.Fatalf("unexpected capped salary: %+v", got)
	}
}
