package actions

import (
	"testing"

	"github.com/dohr-michael/ozzie-core/internal/core"
)

func TestStoreCreateReadDelete(t *testing.T) {
	s := NewStore()

	created, err := s.Create(Action{Name: "create_note", Enabled: true})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Name != "create_note" {
		t.Fatalf("unexpected name: %q", created.Name)
	}

	got, err := s.Read("create_note")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.Name != "create_note" {
		t.Fatalf("round-trip mismatch: %+v", got)
	}

	if err := s.Delete("create_note"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Read("create_note"); !core.IsKind(err, core.KindNotFound) {
		t.Fatalf("expected NotFound after delete, got %v", err)
	}
}

func TestStoreCreateDuplicateName(t *testing.T) {
	s := NewStore()
	if _, err := s.Create(Action{Name: "dup"}); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := s.Create(Action{Name: "dup"})
	if !core.IsKind(err, core.KindDuplicate) {
		t.Fatalf("expected DuplicateName, got %v", err)
	}
}

func TestStoreListEnabledOnly(t *testing.T) {
	s := NewStore()
	s.Create(Action{Name: "a", Enabled: true})
	s.Create(Action{Name: "b", Enabled: false})

	all := s.List(false)
	if len(all) != 2 {
		t.Fatalf("expected 2 actions, got %d", len(all))
	}

	enabled := s.List(true)
	if len(enabled) != 1 || enabled[0].Name != "a" {
		t.Fatalf("expected only 'a' enabled, got %+v", enabled)
	}
}

func TestStoreDisableDoesNotDelete(t *testing.T) {
	s := NewStore()
	s.Create(Action{Name: "a", Enabled: true})

	if err := s.Disable("a"); err != nil {
		t.Fatalf("disable: %v", err)
	}
	got, err := s.Read("a")
	if err != nil {
		t.Fatalf("read after disable: %v", err)
	}
	if got.Enabled {
		t.Fatalf("expected disabled action")
	}
}
