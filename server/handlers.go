package server

import (
	"encoding/json"
	"net/http"

	"github.com/difyops/difybridge/dify"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "difybridge",
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, KindBadRequest, "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, KindBadRequest, "email and password are required")
		return
	}

	if err := s.client.Login(r.Context(), req.Email, req.Password); err != nil {
		writeClientError(w, s.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "logged in successfully",
	})
}

func (s *Server) handleListApps(w http.ResponseWriter, r *http.Request) {
	apps, err := s.client.ListApps(r.Context())
	if err != nil {
		writeClientError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, apps)
}

func (s *Server) handleGetApp(w http.ResponseWriter, r *http.Request) {
	app, err := s.client.GetApp(r.Context(), r.PathValue("id"))
	if err != nil {
		writeClientError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

func (s *Server) handleCreateApp(w http.ResponseWriter, r *http.Request) {
	var req dify.CreateAppRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, KindBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, KindBadRequest, "name is required")
		return
	}

	app, err := s.client.CreateApp(r.Context(), req)
	if err != nil {
		writeClientError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, app)
}

func (s *Server) handleUpdateApp(w http.ResponseWriter, r *http.Request) {
	var req dify.UpdateAppRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, KindBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, KindBadRequest, "name is required")
		return
	}

	app, err := s.client.UpdateApp(r.Context(), r.PathValue("id"), req)
	if err != nil {
		writeClientError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

func (s *Server) handleDeleteApp(w http.ResponseWriter, r *http.Request) {
	if err := s.client.DeleteApp(r.Context(), r.PathValue("id")); err != nil {
		writeClientError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

type updatePromptRequest struct {
	Prompt string `json:"prompt"`
	Mode   string `json:"mode"`
}

func (s *Server) handleUpdatePrompt(w http.ResponseWriter, r *http.Request) {
	var req updatePromptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, KindBadRequest, "invalid request body")
		return
	}
	if req.Prompt == "" {
		writeError(w, http.StatusBadRequest, KindBadRequest, "prompt is required")
		return
	}

	if err := s.client.UpdatePrompt(r.Context(), r.PathValue("id"), req.Prompt, req.Mode); err != nil {
		writeClientError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) handleUpdateModel(w http.ResponseWriter, r *http.Request) {
	var req dify.ModelSettings
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, KindBadRequest, "invalid request body")
		return
	}
	if req.Model == "" {
		writeError(w, http.StatusBadRequest, KindBadRequest, "model is required")
		return
	}

	if err := s.client.UpdateModelSettings(r.Context(), r.PathValue("id"), req); err != nil {
		writeClientError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) handleAddVariable(w http.ResponseWriter, r *http.Request) {
	var req dify.Variable
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, KindBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, KindBadRequest, "variable name is required")
		return
	}

	if err := s.client.AddVariable(r.Context(), r.PathValue("id"), req); err != nil {
		writeClientError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) handleUpdateOpening(w http.ResponseWriter, r *http.Request) {
	var req dify.OpeningStatement
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, KindBadRequest, "invalid request body")
		return
	}
	if req.Statement == "" {
		writeError(w, http.StatusBadRequest, KindBadRequest, "opening_statement is required")
		return
	}

	if err := s.client.UpdateOpeningStatement(r.Context(), r.PathValue("id"), req); err != nil {
		writeClientError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

type linkKnowledgeRequest struct {
	DatasetID      string `json:"dataset_id"`
	RetrievalModel string `json:"retrieval_model"`
}

func (s *Server) handleLinkKnowledge(w http.ResponseWriter, r *http.Request) {
	var req linkKnowledgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, KindBadRequest, "invalid request body")
		return
	}
	if req.DatasetID == "" {
		writeError(w, http.StatusBadRequest, KindBadRequest, "dataset_id is required")
		return
	}

	err := s.client.LinkDatasets(r.Context(), r.PathValue("id"), []dify.DatasetBinding{{
		DatasetID:      req.DatasetID,
		RetrievalModel: req.RetrievalModel,
	}})
	if err != nil {
		writeClientError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) handleListDatasets(w http.ResponseWriter, r *http.Request) {
	datasets, err := s.client.ListDatasets(r.Context())
	if err != nil {
		writeClientError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, datasets)
}

func (s *Server) handleCreateDataset(w http.ResponseWriter, r *http.Request) {
	var req dify.CreateDatasetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, KindBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, KindBadRequest, "name is required")
		return
	}

	ds, err := s.client.CreateDataset(r.Context(), req)
	if err != nil {
		writeClientError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, ds)
}
