// Package inference implements the recognition.Recognizer seam against a
// remote inference endpoint that accepts a multipart audio upload and
// returns recognized text as JSON.
package inference

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/phrazzld/vox-api/internal/recognition"
)

// Client is an HTTP-based Recognizer.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// recognizeResponse is the collaborator's wire format.
type recognizeResponse struct {
	Text  string `json:"text"`
	Error string `json:"error,omitempty"`
}

// NewClient creates an inference client for the given endpoint. The HTTP
// client is caller-supplied so timeouts stay a deployment decision; a nil
// client falls back to http.DefaultClient, which never times out — a
// stuck collaborator then stalls its worker indefinitely.
func NewClient(baseURL string, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     logger.With("component", "inference_client"),
	}
}

// Ensure Client implements the Recognizer interface
var _ recognition.Recognizer = (*Client)(nil)

// Recognize uploads the audio artifact and returns the recognized text.
func (c *Client) Recognize(ctx context.Context, inputPath, language string) (string, error) {
	file, err := os.Open(inputPath)
	if err != nil {
		return "", fmt.Errorf("%w: %v", recognition.ErrRecognitionFailed, err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			c.logger.Warn("failed to close input file", "error", cerr)
		}
	}()

	info, err := file.Stat()
	if err != nil {
		return "", fmt.Errorf("%w: %v", recognition.ErrRecognitionFailed, err)
	}
	if info.Size() == 0 {
		return "", recognition.ErrEmptyInput
	}

	// Stream the multipart body through a pipe so large uploads never
	// buffer fully in memory.
	pr, pw := io.Pipe()
	writer := multipart.NewWriter(pw)

	go func() {
		part, err := writer.CreateFormFile("file", filepath.Base(inputPath))
		if err != nil {
			_ = pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, file); err != nil {
			_ = pw.CloseWithError(err)
			return
		}
		if err := writer.WriteField("language", language); err != nil {
			_ = pw.CloseWithError(err)
			return
		}
		_ = pw.CloseWithError(writer.Close())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/infer", pr)
	if err != nil {
		return "", fmt.Errorf("%w: %v", recognition.ErrRecognitionFailed, err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", recognition.ErrRecognitionFailed, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.Warn("failed to close response body", "error", cerr)
		}
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return "", fmt.Errorf("%w: %v", recognition.ErrRecognitionFailed, err)
	}

	var decoded recognizeResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", fmt.Errorf("%w: unexpected response (status %d)",
			recognition.ErrRecognitionFailed, resp.StatusCode)
	}

	if resp.StatusCode != http.StatusOK {
		msg := decoded.Error
		if msg == "" {
			msg = fmt.Sprintf("status %d", resp.StatusCode)
		}
		return "", fmt.Errorf("%w: %s", recognition.ErrRecognitionFailed, msg)
	}

	return decoded.Text, nil
}
