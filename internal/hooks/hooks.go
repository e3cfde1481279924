// Package hooks implements the Hook Manager: six typed interception points
// in the task lifecycle. Failures inside a user hook never crash the
// dispatcher — invocation is wrapped with recover() and a documented
// default is applied, mirroring the teacher's callbacks package (bridging
// typed events with defaults on missing/erroring handlers).
package hooks

import (
	"time"

	"github.com/dohr-michael/ozzie-core/internal/appctx"
	"github.com/dohr-michael/ozzie-core/internal/classifier"
	"github.com/dohr-michael/ozzie-core/internal/corelog"
	"github.com/dohr-michael/ozzie-core/internal/tasks"
)

// RetryDecision is onRetry's return value.
type RetryDecision struct {
	Retry bool
	Delay time.Duration // zero means "use computed backoff"
}

// Hooks is the set of user-supplied lifecycle interception points. Any
// field left nil falls back to its documented default.
type Hooks struct {
	BeforeClassify func(utterance string, ctx appctx.AppContext) (string, bool) // (utterance, ok); ok=false skips
	BeforeRoute    func(task classifier.ClassifiedTask, ctx appctx.AppContext) (classifier.ClassifiedTask, bool)
	BeforeExecute  func(task tasks.Task, agentID string, ctx appctx.AppContext) bool
	OnRetry        func(task tasks.Task, err error, attempt int) RetryDecision
	AfterExecute   func(task tasks.Task, result tasks.Result)
	OnError        func(task tasks.Task, err error, stage string)
}

// Manager invokes Hooks with panic recovery and the documented defaults.
type Manager struct {
	hooks Hooks
}

// NewManager wraps the given Hooks set.
func NewManager(h Hooks) *Manager {
	return &Manager{hooks: h}
}

// BeforeClassify returns the (possibly modified) utterance, and whether
// classification should proceed at all. Error default: pass the original
// utterance through.
func (m *Manager) BeforeClassify(utterance string, ctx appctx.AppContext) (result string, ok bool) {
	if m.hooks.BeforeClassify == nil {
		return utterance, true
	}
	defer func() {
		if r := recover(); r != nil {
			corelog.For("hooks").Error("beforeClassify panicked", "recover", r)
			result, ok = utterance, true
		}
	}()
	return m.hooks.BeforeClassify(utterance, ctx)
}

// BeforeRoute returns the (possibly modified) task, and whether routing
// should proceed. Error default: pass the original task through.
func (m *Manager) BeforeRoute(task classifier.ClassifiedTask, ctx appctx.AppContext) (result classifier.ClassifiedTask, ok bool) {
	if m.hooks.BeforeRoute == nil {
		return task, true
	}
	defer func() {
		if r := recover(); r != nil {
			corelog.For("hooks").Error("beforeRoute panicked", "recover", r)
			result, ok = task, true
		}
	}()
	return m.hooks.BeforeRoute(task, ctx)
}

// BeforeExecute reports whether execution should proceed. Error default:
// allow (true).
func (m *Manager) BeforeExecute(task tasks.Task, agentID string, ctx appctx.AppContext) (allow bool) {
	if m.hooks.BeforeExecute == nil {
		return true
	}
	defer func() {
		if r := recover(); r != nil {
			corelog.For("hooks").Error("beforeExecute panicked", "recover", r)
			allow = true
		}
	}()
	return m.hooks.BeforeExecute(task, agentID, ctx)
}

// OnRetry returns the retry decision. Error default:
// {retry: attempt < maxAttempts}.
func (m *Manager) OnRetry(task tasks.Task, err error, attempt int) (decision RetryDecision) {
	fallback := RetryDecision{Retry: attempt < task.MaxAttempts}
	if m.hooks.OnRetry == nil {
		return fallback
	}
	defer func() {
		if r := recover(); r != nil {
			corelog.For("hooks").Error("onRetry panicked", "recover", r)
			decision = fallback
		}
	}()
	return m.hooks.OnRetry(task, err, attempt)
}

// AfterExecute notifies completion. Error default: swallow.
func (m *Manager) AfterExecute(task tasks.Task, result tasks.Result) {
	if m.hooks.AfterExecute == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			corelog.For("hooks").Error("afterExecute panicked", "recover", r)
		}
	}()
	m.hooks.AfterExecute(task, result)
}

// OnError notifies a failure. Error default: swallow.
func (m *Manager) OnError(task tasks.Task, err error, stage string) {
	if m.hooks.OnError == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			corelog.For("hooks").Error("onError panicked", "recover", r)
		}
	}()
	m.hooks.OnError(task, err, stage)
}
