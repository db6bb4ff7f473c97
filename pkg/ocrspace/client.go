package ocrspace

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

const DefaultEndpoint = "https://api.ocr.space/parse/image"

var (
	ErrMissingAPIKey = errors.New("ocr.space api key is not configured")
	ErrNoText        = errors.New("no text found in image")
)

type Client struct {
	Endpoint   string
	APIKey     string
	Language   string
	HTTPClient *http.Client
}

type ParsedResult struct {
	ParsedText        string `json:"ParsedText"`
	FileParseExitCode int    `json:"FileParseExitCode"`
	ErrorMessage      string `json:"ErrorMessage"`
}

type ParseResponse struct {
	ParsedResults         []ParsedResult  `json:"ParsedResults"`
	OCRExitCode           int             `json:"OCRExitCode"`
	IsErroredOnProcessing bool            `json:"IsErroredOnProcessing"`
	ErrorMessage          json.RawMessage `json:"ErrorMessage"`
}

// ErrorText flattens ErrorMessage, which the API sends as a string or a list.
func (r *ParseResponse) ErrorText() string {
	if len(r.ErrorMessage) == 0 {
		return ""
	}
	var list []string
	if err := json.Unmarshal(r.ErrorMessage, &list); err == nil {
		return strings.Join(list, "; ")
	}
	var single string
	if err := json.Unmarshal(r.ErrorMessage, &single); err == nil {
		return single
	}
	return string(r.ErrorMessage)
}

func NewClient(endpoint, apiKey string) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		Endpoint: endpoint,
		APIKey:   apiKey,
		Language: "vnm",
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Parse uploads an image and returns the raw API response.
func (c *Client) Parse(image []byte, filename string) (*ParseResponse, error) {
	if c.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	body, contentType, err := c.buildForm(image, filename)
	if err != nil {
		return nil, err
	}

	// Create HTTP request
	req, err := http.NewRequest(http.MethodPost, c.Endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	// Send request
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	// Read response
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ocr.space returned status %d", resp.StatusCode)
	}

	// Parse response
	var response ParseResponse
	if err := json.Unmarshal(raw, &response); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return &response, nil
}

// ExtractText returns the text of the first parsed page.
func (c *Client) ExtractText(image []byte, filename string) (string, error) {
	response, err := c.Parse(image, filename)
	if err != nil {
		return "", err
	}
	if response.IsErroredOnProcessing {
		msg := response.ErrorText()
		if msg == "" {
			msg = "unknown error"
		}
		return "", fmt.Errorf("ocr.space processing failed: %s", msg)
	}
	if len(response.ParsedResults) == 0 || strings.TrimSpace(response.ParsedResults[0].ParsedText) == "" {
		return "", ErrNoText
	}
	return response.ParsedResults[0].ParsedText, nil
}

func (c *Client) buildForm(image []byte, filename string) (*bytes.Buffer, string, error) {
	if filename == "" {
		filename = "label.jpg"
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	fields := [][2]string{
		{"apikey", c.APIKey},
		{"language", c.Language},
		{"isOverlayRequired", "false"},
		{"detectOrientation", "true"},
		{"scale", "true"},
		{"OCREngine", "2"},
	}
	for _, f := range fields {
		if err := writer.WriteField(f[0], f[1]); err != nil {
			return nil, "", fmt.Errorf("failed to write form field %s: %w", f[0], err)
		}
	}

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return nil, "", fmt.Errorf("failed to write image: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close form: %w", err)
	}

	return body, writer.FormDataContentType(), nil
}
