package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"vanguard_backend/internal/vicidial/transport"
	"vanguard_backend/platform/apperr"
	"vanguard_backend/platform/logger"
)

func asAppErr(err error, target **apperr.Error) bool {
	return errors.As(err, target)
}

func jsonDecode(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

type testConfig struct{ baseURL string }

func (c testConfig) GetViciDialBaseURL() string { return c.baseURL }

func newTestClient(serverURL string) *Client {
	return New(testConfig{baseURL: serverURL}, logger.New("test"))
}

func TestFetchCatalog_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/vicidial/data" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"success": true,
			"totalListsScanned": 2,
			"listsWithSaleLeads": 1,
			"totalSaleLeads": 1,
			"allListsSummary": [
				{"listId": "A", "listName": "Ohio", "leadCount": 10, "saleCount": 0, "active": true},
				{"listId": "B", "listName": "Texas", "leadCount": 5, "saleCount": 1, "active": true}
			],
			"saleLeads": [
				{"id": "x1", "listId": "B", "phone": "555-0001", "name": "Acme Trucking"}
			]
		}`))
	}))
	defer server.Close()

	catalog, err := newTestClient(server.URL).FetchCatalog(context.Background(), false)
	if err != nil {
		t.Fatalf("FetchCatalog: %v", err)
	}
	if len(catalog.AllListsSummary) != 2 || len(catalog.SaleLeads) != 1 {
		t.Fatalf("unexpected catalog shape: %+v", catalog)
	}
	if catalog.SaleLeads[0].ID != "x1" {
		t.Fatalf("lead id = %q, want x1", catalog.SaleLeads[0].ID)
	}
}

func TestFetchCatalog_CountsOnlyQuery(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success": true, "totalSaleLeads": 3}`))
	}))
	defer server.Close()

	if _, err := newTestClient(server.URL).FetchCatalog(context.Background(), true); err != nil {
		t.Fatalf("FetchCatalog: %v", err)
	}
	if gotQuery != "countsOnly=true" {
		t.Fatalf("query = %q, want countsOnly=true", gotQuery)
	}
}

func TestFetchCatalog_HTMLBodyWith200IsFormatError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<!DOCTYPE html><html><body>Gateway error</body></html>"))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).FetchCatalog(context.Background(), false)
	if !apperr.Is(err, apperr.KindBadGateway) {
		t.Fatalf("expected bad-gateway format error, got %v", err)
	}
}

func TestFetchCatalog_HTMLBodyWithJSONContentType(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("<html><body>misconfigured proxy</body></html>"))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).FetchCatalog(context.Background(), false)
	if !apperr.Is(err, apperr.KindBadGateway) {
		t.Fatalf("expected bad-gateway format error for HTML body, got %v", err)
	}
}

func TestFetchCatalog_TransportFailureIsRetriable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	_, err := newTestClient(server.URL).FetchCatalog(context.Background(), false)
	if !apperr.Is(err, apperr.KindUnavailable) {
		t.Fatalf("expected unavailable, got %v", err)
	}
	var appErr *apperr.Error
	if !asAppErr(err, &appErr) || !appErr.Retriable {
		t.Fatal("transport failures must carry the retry affordance")
	}
}

func TestFetchCatalog_UpstreamReportsFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success": false, "error": "list scan failed"}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).FetchCatalog(context.Background(), false)
	if !apperr.Is(err, apperr.KindBadGateway) {
		t.Fatalf("expected bad gateway, got %v", err)
	}
}

func TestProcessLead_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/vicidial/process-lead" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req transport.ProcessLeadRequest
		if err := jsonDecode(r, &req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.LeadData.ID != "x1" {
			t.Errorf("lead id = %q, want x1", req.LeadData.ID)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success": true, "lead": {"transcript": "caller wants quote", "dotNumber": "1234567"}}`))
	}))
	defer server.Close()

	enriched, err := newTestClient(server.URL).ProcessLead(context.Background(), transport.RemoteLeadRecord{ID: "x1", Name: "Acme Trucking"})
	if err != nil {
		t.Fatalf("ProcessLead: %v", err)
	}
	if enriched.Transcript != "caller wants quote" || enriched.DOTNumber != "1234567" {
		t.Fatalf("unexpected enrichment: %+v", enriched)
	}
}

func TestProcessLead_Non2xxIsProcessingError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).ProcessLead(context.Background(), transport.RemoteLeadRecord{ID: "x1"})
	if !apperr.Is(err, apperr.KindProcessing) {
		t.Fatalf("expected processing error, got %v", err)
	}
}

func TestProcessLead_ExplicitFailureCarriesReason(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success": false, "error": "no recording found"}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).ProcessLead(context.Background(), transport.RemoteLeadRecord{ID: "x1"})
	if !apperr.Is(err, apperr.KindProcessing) {
		t.Fatalf("expected processing error, got %v", err)
	}
	var appErr *apperr.Error
	if !asAppErr(err, &appErr) || appErr.Message != "no recording found" {
		t.Fatalf("expected upstream reason on the error, got %v", err)
	}
}
