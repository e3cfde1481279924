package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/dohr-michael/ozzie-core/internal/events"
)

// NewDemoCommand submits three sample utterances through the demo runtime's
// keyword classifier and prints their queued/started/completed events, the
// completion order, and the undo history. The tasks are routed to the
// "default" queue (concurrency 2) and the "urgent" queue, so the run does
// not show priority ordering within a single queue. Useful as a smoke test
// that doesn't require an AI classifier API key.
func NewDemoCommand() *cli.Command {
	return &cli.Command{
		Name:  "demo",
		Usage: "Submit sample utterances against the runtime and print lifecycle events",
		Action: func(_ context.Context, _ *cli.Command) error {
			return runDemo()
		},
	}
}

func runDemo() error {
	s, err := newDemoSDK()
	if err != nil {
		return err
	}
	defer s.Close()

	var order []string
	unsubscribe := s.On(func(evt events.Event) {
		id, _ := evt.Payload["task_id"].(string)
		fmt.Printf("[%s] task=%s\n", evt.Type, id)
		if evt.Type == events.EventCompleted {
			order = append(order, id)
		}
	}, events.EventQueued, events.EventStarted, events.EventCompleted)
	defer unsubscribe()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	utterances := []string{
		"take a note: buy milk",
		"urgent page the oncall",
		"send an email to alice",
	}
	var ids []string
	for _, u := range utterances {
		task, err := s.Submit(ctx, u)
		if err != nil {
			return fmt.Errorf("submit %q: %w", u, err)
		}
		if task != nil {
			ids = append(ids, task.ID)
		}
	}

	time.Sleep(500 * time.Millisecond)

	fmt.Println("\ncompletion order:", order)
	fmt.Println("submitted task ids:", ids)

	fmt.Println("\nundo history:")
	for _, entry := range s.Undo.GetHistory(0) {
		fmt.Printf("  %s: %s (task %s)\n", entry.ID, entry.Description, entry.TaskID)
	}

	return nil
}
