package hooks

import (
	"errors"
	"testing"

	"github.com/dohr-michael/ozzie-core/internal/appctx"
	"github.com/dohr-michael/ozzie-core/internal/tasks"
)

func TestBeforeClassifyDefaultPassesThrough(t *testing.T) {
	m := NewManager(Hooks{})
	result, ok := m.BeforeClassify("hello", appctx.AppContext{})
	if !ok || result != "hello" {
		t.Fatalf("expected passthrough, got %q %v", result, ok)
	}
}

func TestBeforeClassifyPanicFallsBackToOriginal(t *testing.T) {
	m := NewManager(Hooks{
		BeforeClassify: func(utterance string, ctx appctx.AppContext) (string, bool) {
			panic("boom")
		},
	})
	result, ok := m.BeforeClassify("hello", appctx.AppContext{})
	if !ok || result != "hello" {
		t.Fatalf("expected fallback to original utterance, got %q %v", result, ok)
	}
}

func TestOnRetryDefaultUsesAttemptVsMaxAttempts(t *testing.T) {
	m := NewManager(Hooks{})
	task := tasks.Task{Attempt: 1, MaxAttempts: 3}

	decision := m.OnRetry(task, errors.New("fail"), 1)
	if !decision.Retry {
		t.Fatal("expected retry true when attempt < maxAttempts")
	}

	decision = m.OnRetry(task, errors.New("fail"), 3)
	if decision.Retry {
		t.Fatal("expected retry false when attempt == maxAttempts")
	}
}

func TestBeforeExecuteDefaultAllows(t *testing.T) {
	m := NewManager(Hooks{})
	if !m.BeforeExecute(tasks.Task{}, "agent1", appctx.AppContext{}) {
		t.Fatal("expected default allow=true")
	}
}

func TestAfterExecuteAndOnErrorSwallowPanics(t *testing.T) {
	m := NewManager(Hooks{
		AfterExecute: func(task tasks.Task, result tasks.Result) { panic("boom") },
		OnError:      func(task tasks.Task, err error, stage string) { panic("boom") },
	})
	// Must not panic out of the test.
	m.AfterExecute(tasks.Task{}, tasks.Result{})
	m.OnError(tasks.Task{}, errors.New("x"), "execute")
}
