// Package usage converts provider token counters into cost estimates for
// observability. It never influences control flow or stored data.
package usage

import (
	"log"

	"fiscalchat-backend/internal/openai"
)

// Per-unit rates in USD. Token rates are per million tokens; the web-search
// tool is billed per call.
const (
	inputRatePerMillion  = 1.25
	cachedRatePerMillion = 0.125
	outputRatePerMillion = 10.0
	webSearchRatePerCall = 0.01
)

// Cost is the computed breakdown for one provider call.
type Cost struct {
	Input     float64
	Cached    float64
	Output    float64
	WebSearch float64
	Total     float64
}

// Compute derives the cost breakdown from raw counters. Billable input is the
// reported input minus the cached portion, floored at zero; some provider
// payloads report cached tokens above the input count and that must not
// produce a negative charge.
func Compute(inputTokens, cachedTokens, outputTokens, webSearchCalls int) Cost {
	billableInput := inputTokens - cachedTokens
	if billableInput < 0 {
		billableInput = 0
	}

	c := Cost{
		Input:     float64(billableInput) * inputRatePerMillion / 1e6,
		Cached:    float64(cachedTokens) * cachedRatePerMillion / 1e6,
		Output:    float64(outputTokens) * outputRatePerMillion / 1e6,
		WebSearch: float64(webSearchCalls) * webSearchRatePerCall,
	}
	c.Total = c.Input + c.Cached + c.Output + c.WebSearch
	return c
}

// Report logs one structured line with token counts and computed costs.
// A nil usage block is skipped silently: no log, no error.
func Report(sessionID string, u *openai.Usage) {
	if u == nil {
		return
	}
	c := Compute(u.InputTokens, u.CachedTokens, u.OutputTokens, u.WebSearchCalls)
	log.Printf("[Usage] session=%s input_tokens=%d cached_tokens=%d output_tokens=%d web_search_calls=%d input_cost=%.6f cached_cost=%.6f output_cost=%.6f search_cost=%.6f total_cost=%.6f",
		sessionID, u.InputTokens, u.CachedTokens, u.OutputTokens, u.WebSearchCalls,
		c.Input, c.Cached, c.Output, c.WebSearch, c.Total)
}
