package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsMiddlewareRecordsRequest(t *testing.T) {
	testCases := []struct {
		name       string
		method     string
		path       string
		statusCode int
	}{
		{
			name:       "normalizes budget path",
			method:     http.MethodGet,
			path:       "/api/v1/budgets/01ABC123",
			statusCode: http.StatusTeapot,
		},
		{
			name:       "keeps non-matching path as-is",
			method:     http.MethodPost,
			path:       "/health",
			statusCode: http.StatusCreated,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			httpRequestsTotal.Reset()
			httpRequestDuration.Reset()
			httpRequestsInFlight.Set(0)

			handlerCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handlerCalled = true
				w.WriteHeader(tc.statusCode)
			})

			req := httptest.NewRequest(tc.method, tc.path, nil)
			rr := httptest.NewRecorder()

			Metrics(next).ServeHTTP(rr, req)

			if !handlerCalled {
				t.Fatalf("next handler was not invoked")
			}

			if got := testutil.ToFloat64(httpRequestsInFlight); got != 0 {
				t.Fatalf("expected in-flight gauge to return to 0, got %v", got)
			}

			normalized := normalizePath(tc.path)
			counter := httpRequestsTotal.WithLabelValues(tc.method, normalized, strconv.Itoa(tc.statusCode))
			if got := testutil.ToFloat64(counter); got != 1 {
				t.Fatalf("expected counter to be 1, got %v", got)
			}
		})
	}
}

func TestNormalizePath(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "budget path without suffix",
			input:    "/api/v1/budgets/01ABC123",
			expected: "/api/v1/budgets/:id",
		},
		{
			name:     "budget spend path",
			input:    "/api/v1/budgets/01ABC123/spend",
			expected: "/api/v1/budgets/:id/spend",
		},
		{
			name:     "spending sub-resource collapses both ids",
			input:    "/api/v1/budgets/01ABC123/spending/01XYZ789",
			expected: "/api/v1/budgets/:id/spending/:transactionID",
		},
		{
			name:     "transaction path",
			input:    "/api/v1/transactions/01XYZ789",
			expected: "/api/v1/transactions/:id",
		},
		{
			name:     "collection path is untouched",
			input:    "/api/v1/budgets/",
			expected: "/api/v1/budgets/",
		},
		{
			name:     "non-matching path",
			input:    "/api/v1/reports/summary",
			expected: "/api/v1/reports/summary",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := normalizePath(tc.input); got != tc.expected {
				t.Fatalf("normalizePath(%q) = %q, expected %q", tc.input, got, tc.expected)
			}
		})
	}
}
