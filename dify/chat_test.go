package dify

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatCompletion(t *testing.T) {
	t.Run("uses app key, not session token", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("POST /v1/chat-messages", func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer app-key-1", r.Header.Get("Authorization"))

			var req ChatRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "hello", req.Query)
			assert.Equal(t, "blocking", req.ResponseMode)
			assert.Equal(t, "user", req.User)

			json.NewEncoder(w).Encode(ChatResponse{
				MessageID:      "m1",
				ConversationID: "c1",
				Answer:         "hi there",
			})
		})

		client, _ := newTestClient(t, mux)

		// Deliberately no Login: the public API must work without a session.
		resp, err := client.ChatCompletion(context.Background(), "app-key-1", ChatRequest{Query: "hello"})
		require.NoError(t, err)
		assert.Equal(t, "hi there", resp.Answer)
		assert.Equal(t, "c1", resp.ConversationID)
	})

	t.Run("missing app key fails locally", func(t *testing.T) {
		client, _ := newTestClient(t, http.NewServeMux())

		_, err := client.ChatCompletion(context.Background(), "", ChatRequest{Query: "hello"})
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("missing query rejected", func(t *testing.T) {
		client, _ := newTestClient(t, http.NewServeMux())

		_, err := client.ChatCompletion(context.Background(), "key", ChatRequest{})
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("rejected app key does not touch session", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("POST /console/api/login", loginHandler("tok"))
		mux.HandleFunc("POST /v1/chat-messages", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})

		client, _ := newTestClient(t, mux)
		require.NoError(t, client.Login(context.Background(), "a@b.c", "pw"))

		_, err := client.ChatCompletion(context.Background(), "bad-key", ChatRequest{Query: "hello"})
		require.Error(t, err)

		// Console session survives a public-API auth failure.
		assert.Equal(t, "tok", client.CurrentToken())
	})
}

func TestGetConversations(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/conversations", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer app-key-1", r.Header.Get("Authorization"))
		assert.Equal(t, "alice", r.URL.Query().Get("user"))
		json.NewEncoder(w).Encode(map[string]any{"data": []any{}})
	})

	client, _ := newTestClient(t, mux)

	_, err := client.GetConversations(context.Background(), "app-key-1", "alice")
	require.NoError(t, err)
}
