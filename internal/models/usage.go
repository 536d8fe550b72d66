package models

type Usage struct {
	InputTokens  int `json:"inputTokens"`
	OutputTokens int `json:"outputTokens"`
}

// UsageLog is one completed summarization call.
type UsageLog struct {
	ID           string `json:"id"`
	Timestamp    int64  `json:"timestamp"`
	Model        string `json:"model"`
	InputTokens  int    `json:"inputTokens"`
	OutputTokens int    `json:"outputTokens"`
	Topic        string `json:"topic"`
	Mode         Mode   `json:"mode"`
}

type UsageSummary struct {
	Requests         int     `json:"requests"`
	InputTokens      int     `json:"inputTokens"`
	OutputTokens     int     `json:"outputTokens"`
	EstimatedCostUSD float64 `json:"estimatedCostUsd"`
}

type UsageReport struct {
	Summary UsageSummary `json:"summary"`
	Logs    []UsageLog   `json:"logs"`
}
