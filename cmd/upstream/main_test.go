package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedNow() time.Time {
	return time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
}

func TestDatasets(t *testing.T) {
	cases := []struct {
		service string
		path    string
		count   int
		firstID string
	}{
		{"erp", "/orders", 5, "ORD-001"},
		{"erp", "/invoices", 3, "INV-2024-001"},
		{"crm", "/customers", 5, "CUS-001"},
		{"crm", "/leads", 4, "LEAD-001"},
		{"itsm", "/tickets", 5, "TKT-001"},
		{"itsm", "/changes", 3, "CHG-001"},
	}

	for _, c := range cases {
		t.Run(c.service+c.path, func(t *testing.T) {
			h := newHandler(services[c.service], fixedNow)
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, httptest.NewRequest("GET", c.path, nil))

			require.Equal(t, http.StatusOK, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

			var items []map[string]interface{}
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &items))
			assert.Len(t, items, c.count)
			assert.Equal(t, c.firstID, items[0]["id"])
		})
	}
}

func TestHealthAndRoot(t *testing.T) {
	h := newHandler(services["crm"], fixedNow)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/health", nil))
	assert.JSONEq(t, `{"status":"healthy","service":"crm-mock","timestamp":"2024-01-15T10:00:00Z"}`, rr.Body.String())

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))
	assert.JSONEq(t, `{"service":"CRM Mock API","version":"1.0.0","endpoints":["/customers","/leads","/opportunities","/health"]}`, rr.Body.String())
}

func TestUnknownPathAndMethod(t *testing.T) {
	h := newHandler(services["itsm"], fixedNow)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/orders", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("POST", "/tickets", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}
