package resume

import (
	"context"
	"fmt"
	"strings"

	"github.com/codetrail/codetrail/internal/logger"
	"github.com/codetrail/codetrail/internal/resume/prompts"
	"github.com/codetrail/codetrail/internal/tracker"
)

// Generator is the external language-generation capability. Satisfied by
// *llm.Manager.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Reducer turns formatted change windows into resume payloads.
type Reducer struct {
	gen Generator
}

// NewReducer creates a reducer backed by the given generator.
func NewReducer(gen Generator) *Reducer {
	return &Reducer{gen: gen}
}

// BuildPrompt concatenates the instruction template with the formatted
// change block. Pure function, no side effects.
func BuildPrompt(formattedChanges, template string) string {
	return template + "\n\n" + formattedChanges
}

// Reduce formats the reduction pipeline for one window of changes: build the
// prompt, invoke generation, clean the output, and classify its shape.
//
// When formattedChanges is exactly the empty-window sentinel, the fixed
// fallback payload is returned without calling the generator at all.
// Generation failures propagate to the caller; no retry happens here.
func (r *Reducer) Reduce(ctx context.Context, formattedChanges string) (*Result, error) {
	if formattedChanges == tracker.NoRecentChanges {
		logger.Debug().Msg("Empty change window, returning fallback payload")
		p := FallbackPayload()
		return &Result{Raw: p.Summary, Payload: p}, nil
	}

	prompt := BuildPrompt(formattedChanges, prompts.Resume())

	raw, err := r.gen.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("resume generation failed: %w", err)
	}

	cleaned := Clean(raw)
	return &Result{
		Raw:     cleaned,
		Payload: ParsePayload(cleaned),
	}, nil
}

// ReduceClassic produces the simpler session-facts resume. The model is
// asked for a plain-text four-section resume rather than JSON.
func (r *Reducer) ReduceClassic(ctx context.Context, sessionFacts string) (*Result, error) {
	prompt := BuildPrompt(sessionFacts, prompts.Classic())

	raw, err := r.gen.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("resume generation failed: %w", err)
	}

	cleaned := Clean(raw)
	return &Result{
		Raw:     cleaned,
		Payload: ParsePayload(cleaned),
	}, nil
}

// Clean strips a leading ```json (or bare ```) fence line and a trailing
// ``` fence if present. Interior text is untouched and no JSON validation
// happens here.
func Clean(raw string) string {
	text := strings.TrimSpace(raw)

	if strings.HasPrefix(text, "```") {
		if idx := strings.Index(text, "\n"); idx >= 0 {
			text = text[idx+1:]
		} else {
			text = strings.TrimPrefix(text, "```json")
			text = strings.TrimPrefix(text, "```")
		}
	}

	text = strings.TrimSpace(text)
	if strings.HasSuffix(text, "```") {
		text = strings.TrimSuffix(text, "```")
	}

	return strings.TrimSpace(text)
}
