package dto

import "time"

// GeminiAPIRequest is the request payload for the Gemini generateContent API.
type GeminiAPIRequest struct {
	SystemInstruction *Content  `json:"system_instruction,omitempty"`
	Contents          []Content `json:"contents"`
}

// Content represents the content of a request or response.
type Content struct {
	Parts []Part `json:"parts"`
}

// Part is a part of the content.
type Part struct {
	Text string `json:"text"`
}

// GeminiAPIResponse is the response from the Gemini API.
type GeminiAPIResponse struct {
	Candidates []Candidate `json:"candidates"`
}

// Candidate is a candidate response from the Gemini API.
type Candidate struct {
	Content Content `json:"content"`
}

// TradeReviewResult is the structured coaching review for a single trade.
type TradeReviewResult struct {
	Score         int    `json:"score"`
	Well          string `json:"well"`
	Wrong         string `json:"wrong"`
	RuleViolation bool   `json:"rule_violation"`
	Improvement   string `json:"improvement"`
}

// TradeReviewResponse is the persisted review returned to the client.
type TradeReviewResponse struct {
	TradeID       string    `json:"trade_id"`
	Score         int       `json:"score"`
	Well          string    `json:"well"`
	Wrong         string    `json:"wrong"`
	RuleViolation bool      `json:"rule_violation"`
	Improvement   string    `json:"improvement"`
	GeneratedAt   time.Time `json:"generated_at"`
}

// WeeklySummaryResponse is the free-form coaching text over a week's trades.
type WeeklySummaryResponse struct {
	WeekStart time.Time `json:"week_start"`
	WeekEnd   time.Time `json:"week_end"`
	Trades    int       `json:"trades"`
	Summary   string    `json:"summary"`
}

// AskRequest is a natural-language question over the user's trade history.
type AskRequest struct {
	Question string `json:"question"`
}

// AskResponse is the free-form answer.
type AskResponse struct {
	Answer string `json:"answer"`
}
