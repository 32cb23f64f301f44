package dify

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListApps(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /console/api/login", loginHandler("tok"))
	mux.HandleFunc("GET /console/api/apps", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{
				{"id": "1", "name": "X", "mode": "chat"},
				{"id": "2", "name": "Y", "mode": "workflow"},
			},
			"total": 2,
		})
	})

	client, _ := newTestClient(t, mux)
	require.NoError(t, client.Login(context.Background(), "a@b.c", "pw"))

	list, err := client.ListApps(context.Background())
	require.NoError(t, err)
	require.Len(t, list.Data, 2)
	assert.Equal(t, "1", list.Data[0].ID)
	assert.Equal(t, "X", list.Data[0].Name)
	assert.Equal(t, "workflow", list.Data[1].Mode)
}

func TestCreateApp(t *testing.T) {
	t.Run("defaults mode to chat", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("POST /console/api/login", loginHandler("tok"))
		mux.HandleFunc("POST /console/api/apps", func(w http.ResponseWriter, r *http.Request) {
			var req CreateAppRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "chat", req.Mode)
			json.NewEncoder(w).Encode(App{ID: "new", Name: req.Name, Mode: req.Mode})
		})

		client, _ := newTestClient(t, mux)
		require.NoError(t, client.Login(context.Background(), "a@b.c", "pw"))

		app, err := client.CreateApp(context.Background(), CreateAppRequest{Name: "Helper"})
		require.NoError(t, err)
		assert.Equal(t, "new", app.ID)
	})

	t.Run("rejects empty name locally", func(t *testing.T) {
		client, _ := newTestClient(t, http.NewServeMux())
		client.session.set("tok")

		_, err := client.CreateApp(context.Background(), CreateAppRequest{})
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})
}

func TestGetAppNotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /console/api/login", loginHandler("tok"))
	mux.HandleFunc("GET /console/api/apps/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"message": "no such app"})
	})

	client, _ := newTestClient(t, mux)
	require.NoError(t, client.Login(context.Background(), "a@b.c", "pw"))

	_, err := client.GetApp(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdatePrompt(t *testing.T) {
	var updated map[string]any

	mux := http.NewServeMux()
	mux.HandleFunc("POST /console/api/login", loginHandler("tok"))
	mux.HandleFunc("GET /console/api/apps/{id}/model-config", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"pre_prompt": "old",
			"model":      map[string]any{"name": "gpt-4"},
		})
	})
	mux.HandleFunc("POST /console/api/apps/{id}/model-config", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&updated))
		json.NewEncoder(w).Encode(map[string]string{"result": "success"})
	})

	client, _ := newTestClient(t, mux)
	require.NoError(t, client.Login(context.Background(), "a@b.c", "pw"))

	require.NoError(t, client.UpdatePrompt(context.Background(), "1", "hi", "chat"))

	// Read-modify-write keeps unrelated config and swaps the prompt.
	assert.Equal(t, "hi", updated["pre_prompt"])
	assert.NotNil(t, updated["model"])
}

func TestAddVariable(t *testing.T) {
	var updated map[string]any

	mux := http.NewServeMux()
	mux.HandleFunc("POST /console/api/login", loginHandler("tok"))
	mux.HandleFunc("GET /console/api/apps/{id}/parameters", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"opening_statement": "hello",
			"user_input_form":   []any{map[string]any{"variable": "existing"}},
		})
	})
	mux.HandleFunc("POST /console/api/apps/{id}/parameters", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&updated))
		json.NewEncoder(w).Encode(map[string]string{"result": "success"})
	})

	client, _ := newTestClient(t, mux)
	require.NoError(t, client.Login(context.Background(), "a@b.c", "pw"))

	err := client.AddVariable(context.Background(), "1", Variable{Name: "topic"})
	require.NoError(t, err)

	form, ok := updated["user_input_form"].([]any)
	require.True(t, ok)
	assert.Len(t, form, 2)

	added, ok := form[1].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "topic", added["variable"])
	assert.Equal(t, "text-input", added["type"])
	assert.Equal(t, "topic", added["label"])
}

func TestLinkDatasets(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /console/api/login", loginHandler("tok"))
	mux.HandleFunc("POST /console/api/apps/{id}/datasets", func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Datasets []DatasetBinding `json:"datasets"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		require.Len(t, payload.Datasets, 1)
		assert.Equal(t, "ds-1", payload.Datasets[0].DatasetID)
		assert.Equal(t, "multiple", payload.Datasets[0].RetrievalModel)
		json.NewEncoder(w).Encode(map[string]string{"result": "success"})
	})

	client, _ := newTestClient(t, mux)
	require.NoError(t, client.Login(context.Background(), "a@b.c", "pw"))

	err := client.LinkDatasets(context.Background(), "1", []DatasetBinding{{DatasetID: "ds-1"}})
	require.NoError(t, err)
}

// TestLoginListUpdateFlow runs the whole happy path against one mock:
// login, list apps, then update the listed app's prompt.
func TestLoginListUpdateFlow(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /console/api/login", loginHandler("abc"))
	mux.HandleFunc("GET /console/api/apps", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer abc", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{"id": "1", "name": "X"}},
		})
	})
	mux.HandleFunc("GET /console/api/apps/1/model-config", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"pre_prompt": ""})
	})
	mux.HandleFunc("POST /console/api/apps/1/model-config", func(w http.ResponseWriter, r *http.Request) {
		var config map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&config))
		assert.Equal(t, "hi", config["pre_prompt"])
		json.NewEncoder(w).Encode(map[string]string{"result": "success"})
	})

	client, _ := newTestClient(t, mux)
	ctx := context.Background()

	require.NoError(t, client.Login(ctx, "admin@example.com", "secret"))
	assert.Equal(t, "abc", client.CurrentToken())

	list, err := client.ListApps(ctx)
	require.NoError(t, err)
	require.Len(t, list.Data, 1)
	assert.Equal(t, "1", list.Data[0].ID)
	assert.Equal(t, "X", list.Data[0].Name)

	require.NoError(t, client.UpdatePrompt(ctx, list.Data[0].ID, "hi", "chat"))
}

func TestListAppsWithDetail(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /console/api/login", loginHandler("tok"))
	mux.HandleFunc("GET /console/api/apps", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{
				{"id": "1", "name": "X"},
				{"id": "2", "name": "Y"},
			},
		})
	})
	mux.HandleFunc("GET /console/api/apps/{id}", func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		json.NewEncoder(w).Encode(App{ID: id, Name: "App " + id, Description: "detailed"})
	})

	client, _ := newTestClient(t, mux)
	require.NoError(t, client.Login(context.Background(), "a@b.c", "pw"))

	apps, err := client.ListAppsWithDetail(context.Background())
	require.NoError(t, err)
	require.Len(t, apps, 2)
	for _, app := range apps {
		assert.Equal(t, "detailed", app.Description)
	}
}
