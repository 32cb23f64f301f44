package dify

import "encoding/json"

// LoginRequest is the console login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the console login response. The token lives under a
// data envelope.
type LoginResponse struct {
	Result string `json:"result"`
	Data   struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	} `json:"data"`
}

// App is a configured assistant on the Dify backend.
type App struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Mode        string `json:"mode"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
	CreatedAt   int64  `json:"created_at"`
}

// AppList is the envelope returned by the app listing endpoint.
type AppList struct {
	Data    []App `json:"data"`
	Total   int   `json:"total"`
	HasMore bool  `json:"has_more"`
}

// CreateAppRequest creates a new app. Mode is one of chat, completion,
// agent-chat or workflow.
type CreateAppRequest struct {
	Name        string `json:"name"`
	Mode        string `json:"mode"`
	Icon        string `json:"icon,omitempty"`
	Description string `json:"description,omitempty"`
}

// UpdateAppRequest renames an app and updates its metadata. Empty optional
// fields are left untouched upstream.
type UpdateAppRequest struct {
	Name        string `json:"name"`
	Icon        string `json:"icon,omitempty"`
	Description string `json:"description,omitempty"`
}

// ModelSettings updates the model backing an app.
type ModelSettings struct {
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
	TopP        float64 `json:"top_p"`
}

// Variable describes a user input variable on an app.
type Variable struct {
	Name      string `json:"variable"`
	Type      string `json:"type"`
	Label     string `json:"label"`
	Required  bool   `json:"required"`
	MaxLength int    `json:"max_length,omitempty"`
}

// OpeningStatement updates an app's opening message and suggestions.
type OpeningStatement struct {
	Statement          string   `json:"opening_statement"`
	SuggestedQuestions []string `json:"suggested_questions,omitempty"`
}

// DatasetBinding links one dataset to an app.
type DatasetBinding struct {
	DatasetID      string `json:"dataset_id"`
	RetrievalModel string `json:"retrieval_model"`
}

// Dataset is a knowledge-base collection on the Dify backend.
type Dataset struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	DocumentCount int    `json:"document_count"`
	WordCount     int    `json:"word_count"`
}

// DatasetList is the envelope returned by the dataset listing endpoint.
type DatasetList struct {
	Data    []Dataset `json:"data"`
	Total   int       `json:"total"`
	HasMore bool      `json:"has_more"`
}

// CreateDatasetRequest creates a new dataset.
type CreateDatasetRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// ChatRequest sends a message to an app through the public API.
type ChatRequest struct {
	Query          string            `json:"query"`
	User           string            `json:"user"`
	ResponseMode   string            `json:"response_mode"`
	ConversationID string            `json:"conversation_id,omitempty"`
	Inputs         map[string]string `json:"inputs,omitempty"`
}

// ChatResponse is the blocking-mode chat completion result.
type ChatResponse struct {
	MessageID      string          `json:"message_id"`
	ConversationID string          `json:"conversation_id"`
	Answer         string          `json:"answer"`
	Metadata       json.RawMessage `json:"metadata"`
	CreatedAt      int64           `json:"created_at"`
}
