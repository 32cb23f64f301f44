package dify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

// ListDatasets retrieves all datasets visible to the session.
func (c *Client) ListDatasets(ctx context.Context) (*DatasetList, error) {
	body, err := c.do(ctx, http.MethodGet, "/console/api/datasets", nil, true)
	if err != nil {
		return nil, err
	}

	var list DatasetList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedResponse, err)
	}

	c.logger.Debug().Int("count", len(list.Data)).Msg("Retrieved datasets from Dify")
	return &list, nil
}

// CreateDataset creates a new knowledge-base dataset.
func (c *Client) CreateDataset(ctx context.Context, req CreateDatasetRequest) (*Dataset, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("%w: dataset name is required", ErrInvalidConfig)
	}

	body, err := c.do(ctx, http.MethodPost, "/console/api/datasets", req, true)
	if err != nil {
		return nil, err
	}

	var ds Dataset
	if err := json.Unmarshal(body, &ds); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedResponse, err)
	}

	c.logger.Info().Str("dataset_id", ds.ID).Str("name", ds.Name).Msg("Created dataset")
	return &ds, nil
}

// UploadDocument uploads a document into a dataset as multipart form data.
// The caller supplies the content; nothing is read from disk here.
func (c *Client) UploadDocument(ctx context.Context, datasetID, filename string, content io.Reader) (json.RawMessage, error) {
	if datasetID == "" {
		return nil, fmt.Errorf("%w: dataset ID is required", ErrInvalidConfig)
	}
	if filename == "" {
		return nil, fmt.Errorf("%w: filename is required", ErrInvalidConfig)
	}

	token := c.session.Token()
	if token == "" {
		return nil, ErrUnauthenticated
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to build upload form: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, fmt.Errorf("failed to read document content: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize upload form: %w", err)
	}

	url := c.baseURL + "/console/api/datasets/" + datasetID + "/documents"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	c.logger.Debug().Str("dataset_id", datasetID).Str("file", filename).Msg("Uploading document")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnreachable, err)
	}

	return c.handleResponse(resp.StatusCode, respBody, http.MethodPost, url, true)
}
