package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

// RequestLog captures one LLM round trip for the request log.
type RequestLog struct {
	Provider     string
	Model        string
	Purpose      string
	LatencyMs    int64
	Success      bool
	InputTokens  int
	OutputTokens int
	RequestBody  string
	ResponseBody string
	ErrorMessage string
}

// RequestLogger persists LLM request logs. The store implements it.
type RequestLogger interface {
	AppendLLMRequest(ctx context.Context, log RequestLog) error
}

// LoggingProvider is a decorator that records every LLM request.
type LoggingProvider struct {
	inner  Provider
	logger RequestLogger
}

// WithLogging wraps a Provider with request logging.
func WithLogging(p Provider, logger RequestLogger) Provider {
	return &LoggingProvider{inner: p, logger: logger}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	purpose := PurposeFrom(ctx)

	resp, err := l.inner.Generate(ctx, req)

	entry := RequestLog{
		Provider:    l.inner.ModelID(),
		Model:       l.inner.ModelID(),
		Purpose:     purpose,
		LatencyMs:   time.Since(start).Milliseconds(),
		Success:     err == nil,
		RequestBody: serializeRequest(req),
	}

	if resp != nil {
		entry.InputTokens = resp.Usage.InputTokens
		entry.OutputTokens = resp.Usage.OutputTokens
		entry.Model = resp.Model
		entry.ResponseBody = string(resp.Content)
	}

	if err != nil {
		entry.ErrorMessage = err.Error()
	}

	// Log the request but don't fail it if logging fails.
	if logErr := l.logger.AppendLLMRequest(ctx, entry); logErr != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to log LLM request: %v\n", logErr)
	}

	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}

// serializeRequest builds a readable representation of the LLM request.
func serializeRequest(req Request) string {
	var b strings.Builder

	if req.System != "" {
		b.WriteString("[system]\n")
		b.WriteString(req.System)
		b.WriteString("\n\n")
	}

	for _, m := range req.Messages {
		b.WriteString(fmt.Sprintf("[%s]\n", m.Role))
		b.WriteString(m.Content)
		b.WriteString("\n\n")
	}

	if req.Schema != nil {
		schemaDef, err := json.Marshal(req.Schema.Definition)
		if err == nil {
			b.WriteString(fmt.Sprintf("[schema: %s]\n", req.Schema.Name))
			b.WriteString(string(schemaDef))
			b.WriteString("\n")
		}
	}

	return b.String()
}
