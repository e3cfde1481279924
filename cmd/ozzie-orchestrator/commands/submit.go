package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/dohr-michael/ozzie-core/internal/events"
)

// NewSubmitCommand returns the submit subcommand: it wires the demo
// runtime, submits one utterance through the full submit() pipeline
// (classify → route → enqueue → dispatch), and streams bus events until
// the resulting task reaches a terminal status or the timeout elapses.
// Grounded on the teacher's ask.go (one-shot request, stream frames until
// a terminal event, print the result).
func NewSubmitCommand() *cli.Command {
	return &cli.Command{
		Name:      "submit",
		Usage:     "Submit an utterance and stream its lifecycle events",
		ArgsUsage: "<utterance>",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "timeout",
				Usage: "Seconds to wait for a terminal event",
				Value: 10,
			},
		},
		Action: runSubmit,
	}
}

func runSubmit(_ context.Context, cmd *cli.Command) error {
	utterance := cmd.Args().First()
	if utterance == "" {
		return fmt.Errorf("usage: ozzie-orchestrator submit <utterance>")
	}

	s, err := newDemoSDK()
	if err != nil {
		return err
	}
	defer s.Close()

	done := make(chan struct{})
	var closeOnce sync.Once
	var mu sync.Mutex
	var taskID string

	unsubscribe := s.On(func(evt events.Event) {
		line, _ := json.Marshal(evt.Payload)
		fmt.Printf("[%s] %s %s\n", evt.Type, evt.Source, line)

		switch evt.Type {
		case events.EventQueued:
			if id, _ := evt.Payload["task_id"].(string); id != "" {
				mu.Lock()
				taskID = id
				mu.Unlock()
			}
		case events.EventCompleted, events.EventFailed, events.EventDeadletter, events.EventCancelled:
			id, _ := evt.Payload["task_id"].(string)
			mu.Lock()
			match := id == taskID
			mu.Unlock()
			if match {
				closeOnce.Do(func() { close(done) })
			}
		}
	})
	defer unsubscribe()

	timeout := time.Duration(cmd.Int("timeout")) * time.Second
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	task, err := s.Submit(ctx, utterance)
	if err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	if task == nil {
		fmt.Println("no task produced (unknown action, hook drop, or no matching route)")
		return nil
	}

	select {
	case <-done:
	case <-time.After(timeout):
		fmt.Println("timed out waiting for a terminal event")
	}

	final, err := s.Tasks.Get(task.ID)
	if err != nil {
		return fmt.Errorf("get task: %w", err)
	}
	fmt.Printf("\ntask %s: status=%s queue=%s attempt=%d/%d\n",
		final.ID, final.Status, final.Queue, final.Attempt, final.MaxAttempts)
	if final.Result != nil {
		fmt.Printf("result: %v\n", final.Result.Value)
	}
	if final.LastError != "" {
		fmt.Printf("last error: %s\n", final.LastError)
	}

	return nil
}
