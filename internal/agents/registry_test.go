package agents

import (
	"testing"

	"github.com/dohr-michael/ozzie-core/internal/core"
	"github.com/dohr-michael/ozzie-core/internal/tasks"
)

func TestRegistryCreateRequiresSubscription(t *testing.T) {
	r := NewRegistry()
	_, err := r.Create(Agent{ID: "a1", Name: "a1"})
	if !core.IsKind(err, core.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRegistryCreateDuplicateName(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Create(Agent{ID: "a1", Name: "notes", Queues: []string{"q"}, Enabled: true}); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := r.Create(Agent{ID: "a2", Name: "notes", Queues: []string{"q"}, Enabled: true})
	if !core.IsKind(err, core.KindDuplicate) {
		t.Fatalf("expected duplicate, got %v", err)
	}
}

func TestFindForQueuePrioritySorted(t *testing.T) {
	r := NewRegistry()
	r.Create(Agent{ID: "low", Name: "low", Queues: []string{"q"}, Priority: 1, Enabled: true})
	r.Create(Agent{ID: "high", Name: "high", Queues: []string{"q"}, Priority: 10, Enabled: true})
	r.Create(Agent{ID: "mid", Name: "mid", Queues: []string{"q"}, Priority: 5, Enabled: true})

	found := r.FindForQueue("q")
	if len(found) != 3 {
		t.Fatalf("expected 3 agents, got %d", len(found))
	}
	if found[0].ID != "high" || found[1].ID != "mid" || found[2].ID != "low" {
		t.Fatalf("unexpected order: %v %v %v", found[0].ID, found[1].ID, found[2].ID)
	}
}

func TestFindForTaskRespectsCanHandle(t *testing.T) {
	r := NewRegistry()
	r.Create(Agent{
		ID: "picky", Name: "picky", Actions: []string{"create_note"}, Priority: 1, Enabled: true,
		CanHandle: func(task tasks.Task) bool { return task.Params["topic"] == "work" },
	})

	match := r.FindForTask(tasks.Task{Action: "create_note", Params: map[string]any{"topic": "home"}})
	if len(match) != 0 {
		t.Fatalf("expected no match, got %v", match)
	}

	match = r.FindForTask(tasks.Task{Action: "create_note", Params: map[string]any{"topic": "work"}})
	if len(match) != 1 {
		t.Fatalf("expected 1 match, got %v", match)
	}
}

func TestFindForTaskTieBrokenByInsertionOrder(t *testing.T) {
	r := NewRegistry()
	r.Create(Agent{ID: "first", Name: "first", Queues: []string{"q"}, Priority: 5, Enabled: true})
	r.Create(Agent{ID: "second", Name: "second", Queues: []string{"q"}, Priority: 5, Enabled: true})

	found := r.FindForQueue("q")
	if found[0].ID != "first" || found[1].ID != "second" {
		t.Fatalf("expected insertion-order tie-break, got %v %v", found[0].ID, found[1].ID)
	}
}

func TestDisabledAgentExcluded(t *testing.T) {
	r := NewRegistry()
	r.Create(Agent{ID: "a1", Name: "a1", Queues: []string{"q"}, Enabled: false})

	if found := r.FindForQueue("q"); len(found) != 0 {
		t.Fatalf("expected disabled agent excluded, got %v", found)
	}
}
