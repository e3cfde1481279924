// Package agents implements the Agent Registry: named resolvers subscribed
// to queues and/or actions, with priority-sorted lookup for the dispatcher's
// agent selection step. Grounded on the teacher's ToolRegistry (a
// name-keyed map with collision-checked registration and filtered lookup).
package agents

import (
	"context"

	"github.com/dohr-michael/ozzie-core/internal/appctx"
	"github.com/dohr-michael/ozzie-core/internal/tasks"
)

// Resolver executes a task and returns its result. Opaque to the core:
// errors surface as typed AgentError failures.
type Resolver func(ctx context.Context, task tasks.Task, appCtx appctx.AppContext) (tasks.Result, error)

// CanHandle optionally narrows whether an agent accepts a specific task
// beyond its queue/action subscriptions.
type CanHandle func(task tasks.Task) bool

// Agent is a resolver subscribed to zero-or-more queues and/or actions.
type Agent struct {
	ID        string
	Name      string
	Queues    []string
	Actions   []string
	Priority  int
	Enabled   bool
	Resolve   Resolver
	CanHandle CanHandle
}

func (a *Agent) subscribesQueue(q string) bool {
	for _, x := range a.Queues {
		if x == q {
			return true
		}
	}
	return false
}

func (a *Agent) subscribesAction(action string) bool {
	for _, x := range a.Actions {
		if x == action {
			return true
		}
	}
	return false
}
