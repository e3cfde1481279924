package classifier

import (
	"context"
	"testing"

	"github.com/dohr-michael/ozzie-core/internal/actions"
	"github.com/dohr-michael/ozzie-core/internal/appctx"
)

func TestCustomClassifier(t *testing.T) {
	c := Custom{Fn: func(ctx context.Context, utterance string, enabledActions []actions.Action, appCtx appctx.AppContext) (*ClassifiedTask, error) {
		return &ClassifiedTask{Action: "create_note", Content: utterance}, nil
	}}

	task, err := c.Classify(context.Background(), "take a note", nil, appctx.AppContext{})
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if task.Action != "create_note" {
		t.Fatalf("unexpected action: %q", task.Action)
	}
}

func TestHybridFallsBackToAIOnNil(t *testing.T) {
	custom := Custom{Fn: func(ctx context.Context, utterance string, enabledActions []actions.Action, appCtx appctx.AppContext) (*ClassifiedTask, error) {
		return nil, nil
	}}
	ai := Custom{Fn: func(ctx context.Context, utterance string, enabledActions []actions.Action, appCtx appctx.AppContext) (*ClassifiedTask, error) {
		return &ClassifiedTask{Action: "fallback"}, nil
	}}
	h := Hybrid{Custom: custom, AI: ai}

	task, err := h.Classify(context.Background(), "x", nil, appctx.AppContext{})
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if task.Action != "fallback" {
		t.Fatalf("expected fallback to AI, got %q", task.Action)
	}
}

func TestHybridPrefersCustomResult(t *testing.T) {
	custom := Custom{Fn: func(ctx context.Context, utterance string, enabledActions []actions.Action, appCtx appctx.AppContext) (*ClassifiedTask, error) {
		return &ClassifiedTask{Action: "custom_wins"}, nil
	}}
	ai := Custom{Fn: func(ctx context.Context, utterance string, enabledActions []actions.Action, appCtx appctx.AppContext) (*ClassifiedTask, error) {
		t.Fatal("AI should not be called when custom returns a result")
		return nil, nil
	}}
	h := Hybrid{Custom: custom, AI: ai}

	task, err := h.Classify(context.Background(), "x", nil, appctx.AppContext{})
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if task.Action != "custom_wins" {
		t.Fatalf("expected custom result, got %q", task.Action)
	}
}
