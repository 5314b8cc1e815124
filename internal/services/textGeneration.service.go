package services

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"maidhub/config"
	ierr "maidhub/internal/errors"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/hashicorp/go-retryablehttp"
)

const TEXT_GENERATION_MAX_TOKENS = 400

type TextPrompt struct {
	System string
	User   string
}

type TextGenerator interface {
	Generate(ctx context.Context, prompt TextPrompt) (string, error)
}

// TextGenerationService talks to an OpenAI compatible chat completions API.
type TextGenerationService struct {
	client  *retryablehttp.Client
	baseURL string
	apiKey  string
	model   string
	log     logger.Logger
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func NewTextGenerationService(config config.Config) *TextGenerationService {
	return &TextGenerationService{
		client:  newUpstreamClient(),
		baseURL: strings.TrimRight(config.AIAPIURL, "/"),
		apiKey:  config.AIAPIKey,
		model:   config.AIModel,
		log:     logger.New("TextGenerationService"),
	}
}

func (s *TextGenerationService) Generate(ctx context.Context, prompt TextPrompt) (string, error) {
	log := s.log.Function("Generate")
	const hint = "Text generation is currently unavailable"

	if s.baseURL == "" {
		return "", ierr.NewError("text generation not configured").WithHint(hint).Mark(ierr.ErrUpstream)
	}

	body, err := json.Marshal(chatCompletionRequest{
		Model: s.model,
		Messages: []chatMessage{
			{Role: "system", Content: prompt.System},
			{Role: "user", Content: prompt.User},
		},
		MaxTokens: TEXT_GENERATION_MAX_TOKENS,
	})
	if err != nil {
		return "", log.Err("failed to marshal completion request", err)
	}

	req, err := retryablehttp.NewRequestWithContext(
		ctx,
		http.MethodPost,
		s.baseURL+"/chat/completions",
		body,
	)
	if err != nil {
		return "", log.Err("failed to create request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	var completion chatCompletionResponse
	if err := doJSON(s.client, req, &completion, hint, log); err != nil {
		return "", err
	}

	if len(completion.Choices) == 0 {
		return "", upstreamErr(log.ErrMsg("completion returned no choices"), hint)
	}

	text := strings.TrimSpace(completion.Choices[0].Message.Content)
	if text == "" {
		return "", upstreamErr(log.ErrMsg("completion returned empty text"), hint)
	}

	return text, nil
}
