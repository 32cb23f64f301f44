package dify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// ListApps retrieves all apps visible to the session.
func (c *Client) ListApps(ctx context.Context) (*AppList, error) {
	body, err := c.do(ctx, http.MethodGet, "/console/api/apps", nil, true)
	if err != nil {
		return nil, err
	}

	var list AppList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedResponse, err)
	}

	c.logger.Debug().Int("count", len(list.Data)).Msg("Retrieved apps from Dify")
	return &list, nil
}

// GetApp retrieves the details of a single app.
func (c *Client) GetApp(ctx context.Context, appID string) (*App, error) {
	if appID == "" {
		return nil, fmt.Errorf("%w: app ID is required", ErrInvalidConfig)
	}

	body, err := c.do(ctx, http.MethodGet, "/console/api/apps/"+appID, nil, true)
	if err != nil {
		return nil, err
	}

	var app App
	if err := json.Unmarshal(body, &app); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedResponse, err)
	}
	return &app, nil
}

// CreateApp creates a new app.
func (c *Client) CreateApp(ctx context.Context, req CreateAppRequest) (*App, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("%w: app name is required", ErrInvalidConfig)
	}
	if req.Mode == "" {
		req.Mode = "chat"
	}

	body, err := c.do(ctx, http.MethodPost, "/console/api/apps", req, true)
	if err != nil {
		return nil, err
	}

	var app App
	if err := json.Unmarshal(body, &app); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedResponse, err)
	}

	c.logger.Info().Str("app_id", app.ID).Str("name", app.Name).Msg("Created app")
	return &app, nil
}

// UpdateApp renames an app and updates its icon and description.
func (c *Client) UpdateApp(ctx context.Context, appID string, req UpdateAppRequest) (*App, error) {
	if appID == "" {
		return nil, fmt.Errorf("%w: app ID is required", ErrInvalidConfig)
	}
	if req.Name == "" {
		return nil, fmt.Errorf("%w: app name is required", ErrInvalidConfig)
	}

	body, err := c.do(ctx, http.MethodPut, "/console/api/apps/"+appID, req, true)
	if err != nil {
		return nil, err
	}

	var app App
	if err := json.Unmarshal(body, &app); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedResponse, err)
	}
	return &app, nil
}

// DeleteApp deletes an app.
func (c *Client) DeleteApp(ctx context.Context, appID string) error {
	if appID == "" {
		return fmt.Errorf("%w: app ID is required", ErrInvalidConfig)
	}

	_, err := c.do(ctx, http.MethodDelete, "/console/api/apps/"+appID, nil, true)
	if err != nil {
		return err
	}

	c.logger.Info().Str("app_id", appID).Msg("Deleted app")
	return nil
}

// GetModelConfig retrieves the model configuration of an app. The shape is
// owned by the backend, so it is returned as a generic document.
func (c *Client) GetModelConfig(ctx context.Context, appID string) (map[string]any, error) {
	body, err := c.do(ctx, http.MethodGet, "/console/api/apps/"+appID+"/model-config", nil, true)
	if err != nil {
		return nil, err
	}

	var config map[string]any
	if err := json.Unmarshal(body, &config); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedResponse, err)
	}
	return config, nil
}

// UpdateModelConfig replaces the model configuration of an app.
func (c *Client) UpdateModelConfig(ctx context.Context, appID string, config map[string]any) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, "/console/api/apps/"+appID+"/model-config", config, true)
}

// UpdatePrompt updates the app's prompt template. The backend expects the
// whole model configuration back, so this reads the current one, swaps the
// prompt and writes it out again.
func (c *Client) UpdatePrompt(ctx context.Context, appID, prompt, mode string) error {
	if prompt == "" {
		return fmt.Errorf("%w: prompt is required", ErrInvalidConfig)
	}
	if mode == "" {
		mode = "chat"
	}

	config, err := c.GetModelConfig(ctx, appID)
	if err != nil {
		return err
	}

	if mode == "chat" {
		config["pre_prompt"] = prompt
	} else {
		params, _ := config["completion_params"].(map[string]any)
		if params == nil {
			params = make(map[string]any)
		}
		params["prompt"] = prompt
		config["completion_params"] = params
	}

	if _, err := c.UpdateModelConfig(ctx, appID, config); err != nil {
		return err
	}

	c.logger.Info().Str("app_id", appID).Str("mode", mode).Msg("Updated app prompt")
	return nil
}

// UpdateModelSettings changes the model and its sampling parameters.
func (c *Client) UpdateModelSettings(ctx context.Context, appID string, settings ModelSettings) error {
	if settings.Model == "" {
		return fmt.Errorf("%w: model name is required", ErrInvalidConfig)
	}

	payload := map[string]any{
		"model": map[string]any{
			"name": settings.Model,
			"completion_params": map[string]any{
				"temperature": settings.Temperature,
				"max_tokens":  settings.MaxTokens,
				"top_p":       settings.TopP,
			},
		},
	}

	_, err := c.UpdateModelConfig(ctx, appID, payload)
	return err
}

// GetParameters retrieves the app's input form, opening statement and the
// rest of its user-facing parameters.
func (c *Client) GetParameters(ctx context.Context, appID string) (map[string]any, error) {
	body, err := c.do(ctx, http.MethodGet, "/console/api/apps/"+appID+"/parameters", nil, true)
	if err != nil {
		return nil, err
	}

	var params map[string]any
	if err := json.Unmarshal(body, &params); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedResponse, err)
	}
	return params, nil
}

// UpdateParameters replaces the app's user-facing parameters.
func (c *Client) UpdateParameters(ctx context.Context, appID string, params map[string]any) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, "/console/api/apps/"+appID+"/parameters", params, true)
}

// AddVariable appends a user input variable to the app's input form.
func (c *Client) AddVariable(ctx context.Context, appID string, v Variable) error {
	if v.Name == "" {
		return fmt.Errorf("%w: variable name is required", ErrInvalidConfig)
	}
	if v.Type == "" {
		v.Type = "text-input"
	}
	if v.Label == "" {
		v.Label = v.Name
	}

	params, err := c.GetParameters(ctx, appID)
	if err != nil {
		return err
	}

	form, _ := params["user_input_form"].([]any)
	form = append(form, v)
	params["user_input_form"] = form

	_, err = c.UpdateParameters(ctx, appID, params)
	return err
}

// UpdateOpeningStatement sets the app's opening message and optional
// suggested questions.
func (c *Client) UpdateOpeningStatement(ctx context.Context, appID string, opening OpeningStatement) error {
	if opening.Statement == "" {
		return fmt.Errorf("%w: opening statement is required", ErrInvalidConfig)
	}

	params, err := c.GetParameters(ctx, appID)
	if err != nil {
		return err
	}

	params["opening_statement"] = opening.Statement
	if len(opening.SuggestedQuestions) > 0 {
		params["suggested_questions"] = opening.SuggestedQuestions
	}

	_, err = c.UpdateParameters(ctx, appID, params)
	return err
}

// GetWorkflowDraft retrieves the draft workflow of a workflow app.
func (c *Client) GetWorkflowDraft(ctx context.Context, appID string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, "/console/api/apps/"+appID+"/workflows/draft", nil, true)
}

// UpdateWorkflowDraft replaces the draft workflow of a workflow app.
func (c *Client) UpdateWorkflowDraft(ctx context.Context, appID string, workflow map[string]any) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, "/console/api/apps/"+appID+"/workflows/draft", workflow, true)
}

// PublishWorkflow publishes the current draft workflow.
func (c *Client) PublishWorkflow(ctx context.Context, appID string) error {
	_, err := c.do(ctx, http.MethodPost, "/console/api/apps/"+appID+"/workflows/publish", map[string]any{}, true)
	return err
}

// AddTool enables agent mode on the app and appends a tool to it.
func (c *Client) AddTool(ctx context.Context, appID, toolName string, toolConfig map[string]any) error {
	if toolName == "" {
		return fmt.Errorf("%w: tool name is required", ErrInvalidConfig)
	}

	config, err := c.GetModelConfig(ctx, appID)
	if err != nil {
		return err
	}

	agentMode, _ := config["agent_mode"].(map[string]any)
	if agentMode == nil {
		agentMode = map[string]any{"enabled": true, "tools": []any{}}
	}
	tools, _ := agentMode["tools"].([]any)
	tools = append(tools, map[string]any{
		"tool_name":   toolName,
		"tool_config": toolConfig,
	})
	agentMode["tools"] = tools
	config["agent_mode"] = agentMode

	_, err = c.UpdateModelConfig(ctx, appID, config)
	return err
}

// LinkDatasets attaches knowledge-base datasets to an app.
func (c *Client) LinkDatasets(ctx context.Context, appID string, bindings []DatasetBinding) error {
	if len(bindings) == 0 {
		return fmt.Errorf("%w: at least one dataset binding is required", ErrInvalidConfig)
	}
	for i := range bindings {
		if bindings[i].DatasetID == "" {
			return fmt.Errorf("%w: dataset ID is required", ErrInvalidConfig)
		}
		if bindings[i].RetrievalModel == "" {
			bindings[i].RetrievalModel = "multiple"
		}
	}

	payload := map[string]any{"datasets": bindings}
	_, err := c.do(ctx, http.MethodPost, "/console/api/apps/"+appID+"/datasets", payload, true)
	if err != nil {
		return err
	}

	c.logger.Info().Str("app_id", appID).Int("datasets", len(bindings)).Msg("Linked datasets to app")
	return nil
}
