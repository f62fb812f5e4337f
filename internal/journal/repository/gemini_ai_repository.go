package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"trading-journal/internal/entity"
	"trading-journal/internal/journal/config"
	"trading-journal/internal/journal/dto"
	"trading-journal/pkg/logger"
	"trading-journal/pkg/ratelimit"

	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// geminiAIRepository is an implementation of AIRepository that uses the
// Google Gemini API.
type geminiAIRepository struct {
	client         *http.Client
	cfg            *config.Config
	logger         *logger.Logger
	tokenLimiter   *ratelimit.TokenLimiter
	requestLimiter *rate.Limiter
	genAiClient    *genai.Client
}

// NewGeminiAIRepository creates a new instance of geminiAIRepository.
func NewGeminiAIRepository(cfg *config.Config, log *logger.Logger, genAiClient *genai.Client) (AIRepository, error) {
	secondsPerRequest := time.Minute / time.Duration(cfg.Gemini.MaxRequestPerMinute)
	requestLimiter := rate.NewLimiter(rate.Every(secondsPerRequest), 1)

	tokenLimiter := ratelimit.NewTokenLimiter(cfg.Gemini.MaxTokenPerMinute)

	return &geminiAIRepository{
		client: &http.Client{
			Timeout: 90 * time.Second,
		},
		cfg:            cfg,
		logger:         log,
		requestLimiter: requestLimiter,
		tokenLimiter:   tokenLimiter,
		genAiClient:    genAiClient,
	}, nil
}

// ReviewTrade asks Gemini for a structured coaching review of a single trade.
func (r *geminiAIRepository) ReviewTrade(ctx context.Context, trade *entity.Trade) (*dto.TradeReviewResult, error) {
	prompt, err := BuildTradeReviewPrompt(trade)
	if err != nil {
		return nil, err
	}

	geminiResp, err := r.executeGeminiAIRequest(ctx, ReviewSystemInstruction, prompt)
	if err != nil {
		return nil, err
	}

	return r.parseReviewResponse(geminiResp)
}

// SummarizeWeek asks Gemini for free-form coaching text over a week of trades.
func (r *geminiAIRepository) SummarizeWeek(ctx context.Context, trades []entity.Trade) (string, error) {
	prompt, err := BuildWeeklySummaryPrompt(trades)
	if err != nil {
		return "", err
	}

	geminiResp, err := r.executeGeminiAIRequest(ctx, CoachSystemInstruction, prompt)
	if err != nil {
		return "", err
	}

	return r.parseTextResponse(geminiResp)
}

// Ask answers a natural-language question grounded in the user's trades.
func (r *geminiAIRepository) Ask(ctx context.Context, question string, trades []entity.Trade) (string, error) {
	prompt, err := BuildAskPrompt(question, trades)
	if err != nil {
		return "", err
	}

	geminiResp, err := r.executeGeminiAIRequest(ctx, CoachSystemInstruction, prompt)
	if err != nil {
		return "", err
	}

	return r.parseTextResponse(geminiResp)
}

func (r *geminiAIRepository) executeGeminiAIRequest(ctx context.Context, systemInstruction, prompt string) (*dto.GeminiAPIResponse, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, "user"),
	}
	geminiTokenResp, err := r.genAiClient.Models.CountTokens(ctx, r.cfg.Gemini.Model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to count tokens: %w", err)
	}

	r.logger.Debug("Gemini token count",
		logger.IntField("total_tokens", int(geminiTokenResp.TotalTokens)),
		logger.IntField("remaining", r.tokenLimiter.GetRemaining()),
	)

	if err := r.tokenLimiter.Wait(ctx, int(geminiTokenResp.TotalTokens)); err != nil {
		return nil, fmt.Errorf("failed to wait for token limit: %w", err)
	}

	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to wait for request limit: %w", err)
	}

	payload := dto.GeminiAPIRequest{
		SystemInstruction: &dto.Content{Parts: []dto.Part{{Text: systemInstruction}}},
		Contents:          []dto.Content{{Parts: []dto.Part{{Text: prompt}}}},
	}

	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		r.logger.Error("Failed to marshal payload", logger.ErrorField(err))
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	apiURL := fmt.Sprintf("%s/%s:generateContent?key=%s", r.cfg.Gemini.BaseURL, r.cfg.Gemini.Model, r.cfg.Gemini.APIKey)
	req, err := http.NewRequestWithContext(ctx, "POST", apiURL, bytes.NewBuffer(jsonPayload))
	if err != nil {
		r.logger.Error("Failed to create new http request", logger.ErrorField(err))
		return nil, fmt.Errorf("failed to create new http request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Error("Failed to send request to Gemini API", logger.ErrorField(err))
		return nil, fmt.Errorf("failed to send request to Gemini API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		r.logger.Error("Received non-OK response from Gemini API", logger.IntField("status_code", resp.StatusCode))
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("received non-OK response from Gemini API: %d - %s", resp.StatusCode, string(body))
	}

	var geminiResp dto.GeminiAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&geminiResp); err != nil {
		r.logger.Error("Failed to decode response body", logger.ErrorField(err))
		return nil, fmt.Errorf("failed to decode response body: %w", err)
	}

	return &geminiResp, nil
}

func (r *geminiAIRepository) parseReviewResponse(resp *dto.GeminiAPIResponse) (*dto.TradeReviewResult, error) {
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no content found in Gemini response")
	}

	rawJSON := resp.Candidates[0].Content.Parts[0].Text
	rawJSON = strings.Trim(rawJSON, "`json\n`")

	var result dto.TradeReviewResult
	if err := json.Unmarshal([]byte(rawJSON), &result); err != nil {
		r.logger.Error("Failed to unmarshal trade review from Gemini response", logger.ErrorField(err), logger.StringField("response", rawJSON))
		return nil, fmt.Errorf("failed to unmarshal trade review from Gemini response: %w", err)
	}

	return &result, nil
}

func (r *geminiAIRepository) parseTextResponse(resp *dto.GeminiAPIResponse) (string, error) {
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content found in Gemini response")
	}
	return strings.TrimSpace(resp.Candidates[0].Content.Parts[0].Text), nil
}
