package repository

import (
	"encoding/json"
	"fmt"
	"strings"

	"trading-journal/internal/entity"
)

// ReviewSystemInstruction frames the single-trade structured review.
const ReviewSystemInstruction = `You are a strict but constructive trading coach. You review a single journaled trade and respond ONLY with JSON, no prose around it.`

// CoachSystemInstruction frames free-form coaching answers.
const CoachSystemInstruction = `You are a trading coach reviewing a trader's journal. Be specific, reference the supplied trades, and keep the answer under 300 words.`

// BuildTradeReviewPrompt renders the single-trade review prompt. The trade is
// embedded as JSON so the model sees every annotation.
func BuildTradeReviewPrompt(trade *entity.Trade) (string, error) {
	tradeJSON, err := json.MarshalIndent(trade, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal trade for prompt: %w", err)
	}

	return fmt.Sprintf(`Review the following trade:

%s

Score the execution from 1 (very poor) to 10 (excellent), considering entry timing, sizing, emotional tags, and tagged mistakes.

Respond with JSON in exactly this structure:
{
  "score": <int 1-10>,
  "well": "<what the trader did well>",
  "wrong": "<what went wrong, empty string if nothing>",
  "rule_violation": <true if a tagged mistake or the notes indicate a broken trading rule>,
  "improvement": "<one concrete improvement for the next trade>"
}`, string(tradeJSON)), nil
}

// BuildWeeklySummaryPrompt renders the weekly coaching summary prompt.
func BuildWeeklySummaryPrompt(trades []entity.Trade) (string, error) {
	var b strings.Builder
	for i := range trades {
		line, err := json.Marshal(trades[i])
		if err != nil {
			return "", fmt.Errorf("failed to marshal trade for prompt: %w", err)
		}
		b.WriteString(fmt.Sprintf("%d. %s\n", i+1, string(line)))
	}

	return fmt.Sprintf(`Here are the trades journaled this week:

%s
Write a coaching summary of the week: overall result, the recurring strengths, the recurring mistakes or emotional patterns, and the single most important focus for next week. Plain text, no JSON.`, b.String()), nil
}

// BuildAskPrompt renders a natural-language question over the trade history.
func BuildAskPrompt(question string, trades []entity.Trade) (string, error) {
	tradesJSON, err := json.Marshal(trades)
	if err != nil {
		return "", fmt.Errorf("failed to marshal trades for prompt: %w", err)
	}

	return fmt.Sprintf(`The trader's journal as JSON:

%s

Question: %s

Answer from the journal data only. If the data cannot answer the question, say so.`, string(tradesJSON), question), nil
}
