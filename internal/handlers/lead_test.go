package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/michael-berardi/harborform/internal/relay"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// webhookServer counts deliveries and answers with status.
func webhookServer(t *testing.T, status int) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func postJSON(t *testing.T, h http.HandlerFunc, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/lead", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h(rec, req)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return rec.Code, out
}

const janeDoeJSON = `{"name":"Jane Doe","email":"jane@x.com","company":"Acme","goals":"grow"}`

func TestSubmitLeadNoSinksConfigured(t *testing.T) {
	h := &LeadHandler{Relay: relay.New(relay.Options{Logger: quietLogger()})}

	code, body := postJSON(t, h.SubmitLead, janeDoeJSON)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["success"])
}

func TestSubmitLeadStatuses(t *testing.T) {
	tests := []struct {
		name      string
		hookCode  int
		body      string
		wantCode  int
		wantError string
		wantHits  int32
	}{
		{"delivered", http.StatusOK, janeDoeJSON, http.StatusOK, "", 1},
		{"missing goals", http.StatusOK, `{"name":"Jane","email":"j@x.com","company":"Acme"}`, http.StatusBadRequest, "Missing required fields", 0},
		{"blank name", http.StatusOK, `{"name":"  ","email":"j@x.com","company":"Acme","goals":"g"}`, http.StatusBadRequest, "Missing required fields", 0},
		{"malformed json", http.StatusOK, `{"name":`, http.StatusBadRequest, "Missing required fields", 0},
		{"webhook down", http.StatusBadGateway, janeDoeJSON, http.StatusInternalServerError, "Failed to process submission", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, hits := webhookServer(t, tt.hookCode)
			h := &LeadHandler{Relay: relay.New(relay.Options{
				Webhook: relay.NewWebhookSink(srv.URL, 0),
				Logger:  quietLogger(),
			})}

			code, body := postJSON(t, h.SubmitLead, tt.body)
			assert.Equal(t, tt.wantCode, code)
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, body["error"])
			} else {
				assert.Equal(t, true, body["success"])
			}
			assert.Equal(t, tt.wantHits, hits.Load())
		})
	}
}

func TestBookAudit(t *testing.T) {
	h := &LeadHandler{Relay: relay.New(relay.Options{Logger: quietLogger()})}

	code, body := postJSON(t, h.BookAudit, janeDoeJSON)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Missing required fields", body["error"])

	withSlot := `{"name":"Jane Doe","email":"jane@x.com","company":"Acme","goals":"grow","preferredDate":"2024-03-04","preferredTime":"10:00"}`
	code, body = postJSON(t, h.BookAudit, withSlot)
	assert.Equal(t, http.StatusOK, code, "email problems never fail a booking")
	assert.Equal(t, true, body["success"])
}

func TestSubmitLeadForwardsFullPayload(t *testing.T) {
	received := make(chan map[string]any, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		json.NewDecoder(r.Body).Decode(&payload)
		received <- payload
	}))
	t.Cleanup(srv.Close)

	h := &LeadHandler{Relay: relay.New(relay.Options{
		Webhook: relay.NewWebhookSink(srv.URL, 0),
		Logger:  quietLogger(),
	})}
	body := `{"name":" Jane Doe ","email":"jane@x.com","company":"Acme","goals":"grow","utm_source":"gbp","services":["seo","ads"]}`
	code, _ := postJSON(t, h.SubmitLead, body)
	require.Equal(t, http.StatusOK, code)

	payload := <-received
	assert.Equal(t, "Jane Doe", payload["name"])
	assert.Equal(t, "gbp", payload["utm_source"])
	assert.Equal(t, []any{"seo", "ads"}, payload["services"])
}
