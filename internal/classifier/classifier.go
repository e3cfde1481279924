// Package classifier defines the Classifier contract the core depends on:
// utterance → classified task. The core never reaches into a concrete
// model SDK directly; swap-ability between AI, Custom, and Hybrid
// implementations is a first-class property (spec §4.7).
package classifier

import (
	"context"

	"github.com/dohr-michael/ozzie-core/internal/actions"
	"github.com/dohr-michael/ozzie-core/internal/appctx"
)

// ClassifiedTask is the classifier's decision. Action == "unknown" signals
// a no-op; callers MUST NOT route unknowns.
type ClassifiedTask struct {
	Action     string
	Content    string
	Params     map[string]any
	Priority   int
	Confidence float64
}

// Classifier turns a raw utterance into a ClassifiedTask, or nil when the
// utterance doesn't map to any enabled action (or was rate-limited /
// debounced, for the AI implementation).
type Classifier interface {
	Classify(ctx context.Context, utterance string, enabledActions []actions.Action, appCtx appctx.AppContext) (*ClassifiedTask, error)
}

// CustomFunc is the signature a Custom classifier delegates to.
type CustomFunc func(ctx context.Context, utterance string, enabledActions []actions.Action, appCtx appctx.AppContext) (*ClassifiedTask, error)

// Custom delegates classification entirely to a user function.
type Custom struct {
	Fn CustomFunc
}

// Classify invokes the wrapped function.
func (c Custom) Classify(ctx context.Context, utterance string, enabledActions []actions.Action, appCtx appctx.AppContext) (*ClassifiedTask, error) {
	return c.Fn(ctx, utterance, enabledActions, appCtx)
}

// Hybrid tries Custom first; on a nil result it falls back to AI.
type Hybrid struct {
	Custom Classifier
	AI     Classifier
}

// Classify tries Custom, falling back to AI when Custom returns nil
// without error.
func (h Hybrid) Classify(ctx context.Context, utterance string, enabledActions []actions.Action, appCtx appctx.AppContext) (*ClassifiedTask, error) {
	task, err := h.Custom.Classify(ctx, utterance, enabledActions, appCtx)
	if err != nil {
		return nil, err
	}
	if task != nil {
		return task, nil
	}
	return h.AI.Classify(ctx, utterance, enabledActions, appCtx)
}
