package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// OpenAIParser calls any OpenAI-compatible /v1/chat/completions endpoint and
// requests a JSON object response. Works with vLLM, LiteLLM, OpenRouter and
// self-hosted models as well as the hosted API.
type OpenAIParser struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewOpenAIParser builds a StructuredParser.
// baseURL should include the /v1 prefix, e.g. "https://api.openai.com/v1".
// apiKey can be empty for local models that do not require authentication.
func NewOpenAIParser(baseURL, apiKey, model string) *OpenAIParser {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	return &OpenAIParser{
		baseURL: baseURL,
		apiKey:  strings.TrimSpace(apiKey),
		model:   strings.TrimSpace(model),
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// Parse implements StructuredParser using the chat completions API.
func (p *OpenAIParser) Parse(ctx context.Context, instructions, prompt string, out any) error {
	if p.model == "" {
		return &ProviderError{Message: "generation model required"}
	}
	messages := make([]oaiMessage, 0, 2)
	if strings.TrimSpace(instructions) != "" {
		messages = append(messages, oaiMessage{Role: "system", Content: instructions})
	}
	messages = append(messages, oaiMessage{Role: "user", Content: prompt})

	body, err := json.Marshal(oaiChatRequest{
		Model:          p.model,
		Messages:       messages,
		ResponseFormat: &oaiResponseFormat{Type: "json_object"},
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ai request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp oaiErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&errResp)
		return &ProviderError{Status: resp.StatusCode, Message: errResp.Error.Message}
	}

	var chatResp oaiChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return fmt.Errorf("ai decode: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return &ProviderError{Status: resp.StatusCode, Message: "empty response"}
	}
	content := strings.TrimSpace(chatResp.Choices[0].Message.Content)
	if content == "" {
		return &ProviderError{Status: resp.StatusCode, Message: "empty response"}
	}
	if err := json.Unmarshal([]byte(content), out); err != nil {
		return &ProviderError{Status: resp.StatusCode, Message: "malformed json answer"}
	}
	return nil
}

type oaiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type oaiResponseFormat struct {
	Type string `json:"type"`
}

type oaiChatRequest struct {
	Model          string             `json:"model"`
	Messages       []oaiMessage       `json:"messages"`
	ResponseFormat *oaiResponseFormat `json:"response_format,omitempty"`
}

type oaiChatResponse struct {
	Choices []struct {
		Message oaiMessage `json:"message"`
	} `json:"choices"`
}

type oaiErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}
