package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	internalhttp "github.com/scrapeworks-io/sapi/internal/http"
	"github.com/scrapeworks-io/sapi/pkg/sapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebhooksClient_Create(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/webhooks", r.URL.Path)
		assert.Equal(t, "POST", r.Method)

		var body map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&body)
		assert.Equal(t, "https://hooks.example.com/runs", body["requestUrl"])

		w.WriteHeader(http.StatusCreated)
		writeData(w, sapi.Webhook{
			Resource:   sapi.Resource{ID: "webhook-id"},
			EventTypes: []string{"ACTOR.RUN.SUCCEEDED"},
			RequestURL: "https://hooks.example.com/runs",
		})
	}))
	defer server.Close()

	webhooks := NewWebhooksClient(internalhttp.NewClient(server.URL, nil))

	webhook, err := webhooks.Create(context.Background(), &sapi.WebhookCreateRequest{
		EventTypes: []string{"ACTOR.RUN.SUCCEEDED"},
		RequestURL: "https://hooks.example.com/runs",
	})
	require.NoError(t, err)
	assert.Equal(t, "webhook-id", webhook.ID)
}

func TestWebhooksClient_Create_RequiresURL(t *testing.T) {
	webhooks := NewWebhooksClient(internalhttp.NewClient("http://localhost", nil))

	_, err := webhooks.Create(context.Background(), &sapi.WebhookCreateRequest{
		EventTypes: []string{"ACTOR.RUN.SUCCEEDED"},
	})
	require.ErrorIs(t, err, sapi.ErrWebhookURLRequired)
}

func TestWebhooksClient_ListDispatches(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/webhooks/webhook-id/dispatches", r.URL.Path)

		writeData(w, sapi.PaginatedList[sapi.WebhookDispatch]{
			Items: []sapi.WebhookDispatch{
				{Resource: sapi.Resource{ID: "d-1"}, WebhookID: "webhook-id", Status: "SUCCEEDED"},
			},
			Total: 1,
		})
	}))
	defer server.Close()

	webhooks := NewWebhooksClient(internalhttp.NewClient(server.URL, nil))

	dispatches, err := webhooks.ListDispatches(context.Background(), "webhook-id", nil)
	require.NoError(t, err)
	require.Len(t, dispatches.Items, 1)
	assert.Equal(t, "SUCCEEDED", dispatches.Items[0].Status)
}

func TestWebhooksClient_Delete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/webhooks/webhook-id", r.URL.Path)
		assert.Equal(t, "DELETE", r.Method)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	webhooks := NewWebhooksClient(internalhttp.NewClient(server.URL, nil))

	err := webhooks.Delete(context.Background(), "webhook-id")
	require.NoError(t, err)
}
