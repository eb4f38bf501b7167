package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mnemo-cli/mnemo/internal/llm"
)

// LLMLogRepo persists and aggregates LLM request logs. It satisfies
// llm.RequestLogger.
type LLMLogRepo struct {
	db *sql.DB
}

// ModelUsage is the aggregated token usage for one model.
type ModelUsage struct {
	Provider     string
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// LLMLog returns a request logger backed by this store.
func (s *Store) LLMLog() *LLMLogRepo {
	return &LLMLogRepo{db: s.db}
}

func (r *LLMLogRepo) AppendLLMRequest(ctx context.Context, log llm.RequestLog) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO llm_requests (provider, model, purpose, latency_ms, success,
			input_tokens, output_tokens, request_body, response_body, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, log.Provider, log.Model, log.Purpose, log.LatencyMs, log.Success,
		log.InputTokens, log.OutputTokens, log.RequestBody, log.ResponseBody, log.ErrorMessage)
	if err != nil {
		return fmt.Errorf("append llm request log: %w", err)
	}
	return nil
}

// UsageByModel returns per-model token totals over all logged
// requests, busiest model first.
func (r *LLMLogRepo) UsageByModel(ctx context.Context) ([]ModelUsage, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT provider, model, COUNT(*),
			COALESCE(SUM(input_tokens), 0),
			COALESCE(SUM(output_tokens), 0),
			COALESCE(CAST(AVG(latency_ms) AS INTEGER), 0)
		FROM llm_requests
		GROUP BY provider, model
		ORDER BY COUNT(*) DESC, model ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query llm usage: %w", err)
	}
	defer rows.Close()

	var usage []ModelUsage
	for rows.Next() {
		var u ModelUsage
		if err := rows.Scan(&u.Provider, &u.Model, &u.Calls,
			&u.InputTokens, &u.OutputTokens, &u.AvgLatencyMs); err != nil {
			return nil, fmt.Errorf("scan llm usage: %w", err)
		}
		usage = append(usage, u)
	}
	return usage, rows.Err()
}
