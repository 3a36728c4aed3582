package relay

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/michael-berardi/harborform/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebhookSinkPostsJSON(t *testing.T) {
	var got models.Lead
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	lead := janeDoe()
	lead.Timeline = "Q3"
	sink := NewWebhookSink(srv.URL+"/hook", 5*time.Second)
	require.NoError(t, sink.Deliver(context.Background(), lead))
	assert.Equal(t, lead, got)
}

func TestWebhookSinkNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	sink := NewWebhookSink(srv.URL, 0)
	err := sink.Deliver(context.Background(), janeDoe())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestWebhookSinkUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	sink := NewWebhookSink(url, time.Second)
	assert.Error(t, sink.Deliver(context.Background(), janeDoe()))
}

func TestSendGridMailer(t *testing.T) {
	var body map[string]any
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, mailSendPath, r.URL.Path)
		auth = r.Header.Get("Authorization")
		raw, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.NoError(t, json.Unmarshal(raw, &body))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	m := &SendGridMailer{APIKey: "SG.test", BaseURL: srv.URL, FromEmail: "hello@agency.test", FromName: "Agency"}
	err := m.Send(context.Background(), Message{
		ToEmail: "ops@agency.test",
		ReplyTo: "jane@x.com",
		Subject: "New lead",
		Text:    "plain",
		HTML:    "<p>html</p>",
	})
	require.NoError(t, err)
	assert.Equal(t, "Bearer SG.test", auth)
	assert.Equal(t, "New lead", body["subject"])
	from, ok := body["from"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "hello@agency.test", from["email"])
}

func TestSendGridMailerErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"errors":[{"message":"bad key"}]}`))
	}))
	defer srv.Close()

	m := &SendGridMailer{APIKey: "bad", BaseURL: srv.URL, FromEmail: "hello@agency.test"}
	err := m.Send(context.Background(), Message{ToEmail: "ops@agency.test", Subject: "s", Text: "t", HTML: "<p>h</p>"})
	assert.Error(t, err)
}
