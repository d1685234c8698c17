package models

import "time"

// GuessRequest is the JSON body for the guess endpoint. CurrentWord is
// advisory only: the session's own chain decides what the guess is judged
// against.
type GuessRequest struct {
	CurrentWord string `json:"current_word"`
	UserGuess   string `json:"user_guess"`
	SessionID   string `json:"session_id"`
	Persona     string `json:"persona"`
}

type GuessResponse struct {
	Message     string `json:"message"`
	NextWord    string `json:"next_word,omitempty"`
	GameOver    bool   `json:"game_over"`
	Score       int    `json:"score"`
	GlobalCount *int64 `json:"global_count"`
	SessionID   string `json:"session_id"`
}

type StateResponse struct {
	SessionID   string   `json:"session_id"`
	CurrentWord string   `json:"current_word"`
	Words       []string `json:"words"`
	Score       int      `json:"score"`
	GameOver    bool     `json:"game_over"`
}

type ResetRequest struct {
	SessionID string `json:"session_id"`
	Persona   string `json:"persona"`
}

type ResetResponse struct {
	Message     string `json:"message"`
	SessionID   string `json:"session_id"`
	CurrentWord string `json:"current_word"`
}

type WordStat struct {
	Word  string `json:"word"`
	Count int64  `json:"count"`
}

type StatsResponse struct {
	Words []WordStat `json:"words"`
}

// Config carries the env-derived settings shared across handlers and
// middleware.
type Config struct {
	IsProduction       bool
	StartTime          time.Time
	StaticCacheAge     time.Duration
	SessionTTL         time.Duration
	VerdictCacheTTL    time.Duration
	RateLimitRPS       int
	RateLimitBurst     int
	RateLimiterTTL     time.Duration
	MaxGuessLength     int
	ModerationFailOpen bool
}
