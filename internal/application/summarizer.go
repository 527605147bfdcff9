package application

import (
	"context"
	"encoding/json"
)

// StateReport is what read_state hands to the language-generation step.
type StateReport struct {
	SourceID       string
	OriginalPrompt string
	State          json.RawMessage
}

type Summarizer interface {
	Summarize(ctx context.Context, report StateReport) (any, error)
}

// PassthroughSummarizer returns the raw state, for deployments where the
// caller phrases the answer itself.
type PassthroughSummarizer struct{}

func (p *PassthroughSummarizer) Summarize(_ context.Context, report StateReport) (any, error) {
	return report.State, nil
}
