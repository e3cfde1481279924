package commands

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/dohr-michael/ozzie-core/internal/actions"
	"github.com/dohr-michael/ozzie-core/internal/agents"
	"github.com/dohr-michael/ozzie-core/internal/appctx"
	"github.com/dohr-michael/ozzie-core/internal/classifier"
	"github.com/dohr-michael/ozzie-core/internal/config"
	"github.com/dohr-michael/ozzie-core/internal/queues"
	"github.com/dohr-michael/ozzie-core/internal/router"
	"github.com/dohr-michael/ozzie-core/internal/sdk"
	"github.com/dohr-michael/ozzie-core/internal/tasks"
)

// newDemoSDK wires a small sample domain — three actions, a matching agent
// per action, a "default" and "urgent" queue, and a routing rule sending
// actions whose name starts with "urgent_" to the urgent queue — so the CLI's
// subcommands have something concrete to submit against without requiring
// network access or an API key. Mirrors the teacher's own pattern of
// seeding a runnable demo rather than requiring external config for a
// first run.
func newDemoSDK() (*sdk.SDK, error) {
	cfg := config.Config{
		DefaultQueue: "default",
		Classifier:   config.ClassifierConfig{Mode: config.ClassifierCustom},
		Errors:       config.ErrorsConfig{OnClassifyError: config.OnClassifyErrorIgnore},
	}

	s, err := sdk.New(sdk.Options{
		Config:         cfg,
		CustomClassify: keywordClassify,
	})
	if err != nil {
		return nil, fmt.Errorf("construct sdk: %w", err)
	}

	if _, err := s.Queues.Create(queues.Queue{Name: "default", Concurrency: 2, Overflow: queues.OverflowError}); err != nil {
		return nil, fmt.Errorf("create default queue: %w", err)
	}
	if _, err := s.Queues.Create(queues.Queue{Name: "urgent", Concurrency: 1, Overflow: queues.OverflowDeadletter, MaxSize: 5}); err != nil {
		return nil, fmt.Errorf("create urgent queue: %w", err)
	}

	for _, a := range sampleActions() {
		if _, err := s.Actions.Create(a); err != nil {
			return nil, fmt.Errorf("create action %s: %w", a.Name, err)
		}
	}

	for _, a := range sampleAgents() {
		if _, err := s.Agents.Create(a); err != nil {
			return nil, fmt.Errorf("create agent %s: %w", a.Name, err)
		}
	}

	if _, err := s.Router.AddRule(router.Rule{
		Priority: 10,
		Match:    router.Match{Pattern: mustPattern(`^urgent_`)},
		Target:   "urgent",
	}); err != nil {
		return nil, fmt.Errorf("add routing rule: %w", err)
	}
	s.Router.SetDefaultQueue("default")

	return s, nil
}

func sampleActions() []actions.Action {
	return []actions.Action{
		{
			Name:        "create_note",
			Description: "Create a short note from the spoken content",
			Parameters:  []actions.Parameter{{Name: "text", Type: actions.ParamString, Required: true}},
			Examples:    []string{"take a note", "remember this", "jot down"},
			Enabled:     true,
		},
		{
			Name:        "send_email",
			Description: "Draft and send an email",
			Parameters: []actions.Parameter{
				{Name: "to", Type: actions.ParamString, Required: true},
				{Name: "body", Type: actions.ParamString, Required: false},
			},
			Examples: []string{"send an email", "email"},
			Enabled:  true,
		},
		{
			Name:        "urgent_page",
			Description: "Page the on-call agent immediately",
			Parameters:  []actions.Parameter{{Name: "text", Type: actions.ParamString, Required: true}},
			Examples:    []string{"urgent", "page oncall"},
			Enabled:     true,
		},
	}
}

func sampleAgents() []agents.Agent {
	return []agents.Agent{
		{
			Name:     "note-taker",
			Actions:  []string{"create_note"},
			Priority: 1,
			Enabled:  true,
			Resolve:  noteTakerResolve,
		},
		{
			Name:     "mailer",
			Actions:  []string{"send_email"},
			Priority: 1,
			Enabled:  true,
			Resolve:  mailerResolve,
		},
		{
			Name:     "pager",
			Actions:  []string{"urgent_page"},
			Queues:   []string{"urgent"},
			Priority: 5,
			Enabled:  true,
			Resolve:  pagerResolve,
		},
	}
}

func noteTakerResolve(_ context.Context, task tasks.Task, _ appctx.AppContext) (tasks.Result, error) {
	text, _ := task.Params["text"].(string)
	noteID := "note_" + task.ID
	return tasks.Result{
		Value: map[string]any{"id": noteID, "text": text},
		Undo: func() error {
			return nil // deletes noteID in a real note store
		},
	}, nil
}

func mailerResolve(_ context.Context, task tasks.Task, _ appctx.AppContext) (tasks.Result, error) {
	to, _ := task.Params["to"].(string)
	if to == "" {
		to = "unspecified@example.com"
	}
	return tasks.Result{Value: fmt.Sprintf("sent to %s", to)}, nil
}

func pagerResolve(_ context.Context, task tasks.Task, _ appctx.AppContext) (tasks.Result, error) {
	return tasks.Result{Value: "paged on-call"}, nil
}

// keywordClassify is a deliberately simple Custom classifier: it matches
// the utterance against each enabled action's example phrases, so the demo
// CLI works without an AI classifier API key. A real deployment supplies
// its own CustomFunc or switches Classifier.Mode to "ai"/"hybrid".
func keywordClassify(_ context.Context, utterance string, enabledActions []actions.Action, _ appctx.AppContext) (*classifier.ClassifiedTask, error) {
	lower := strings.ToLower(utterance)

	priority := 1
	if strings.Contains(lower, "urgent") {
		priority = 3
	}

	for _, a := range enabledActions {
		for _, example := range a.Examples {
			if strings.Contains(lower, strings.ToLower(example)) {
				return &classifier.ClassifiedTask{
					Action:     a.Name,
					Content:    utterance,
					Params:     extractParams(lower),
					Priority:   priority,
					Confidence: 0.9,
				}, nil
			}
		}
	}

	return &classifier.ClassifiedTask{Action: "unknown", Content: utterance, Confidence: 0}, nil
}

func mustPattern(expr string) *regexp.Regexp {
	return regexp.MustCompile(expr)
}

func extractParams(lower string) map[string]any {
	params := map[string]any{"text": lower}
	if idx := strings.Index(lower, " to "); idx >= 0 {
		params["to"] = strings.TrimSpace(lower[idx+4:])
	}
	return params
}
