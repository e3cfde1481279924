package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// NewStatusCommand prints the demo runtime's registered actions, agents,
// and queue stats — a quick sanity check that the wiring in runtime.go
// produces a usable runtime before submitting anything through it.
func NewStatusCommand() *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Print the demo runtime's actions, agents, and queues",
		Action: func(_ context.Context, _ *cli.Command) error {
			s, err := newDemoSDK()
			if err != nil {
				return err
			}
			defer s.Close()

			fmt.Println("actions:")
			for _, a := range s.Actions.List(false) {
				fmt.Printf("  %-16s enabled=%v examples=%v\n", a.Name, a.Enabled, a.Examples)
			}

			fmt.Println("\nagents:")
			for _, a := range s.Agents.List() {
				fmt.Printf("  %-16s queues=%v actions=%v priority=%d\n", a.Name, a.Queues, a.Actions, a.Priority)
			}

			fmt.Println("\nqueues:")
			for _, q := range s.Queues.List() {
				stats, _ := s.Queues.GetStats(q.Name)
				fmt.Printf("  %-16s concurrency=%d overflow=%s pending=%d running=%d\n",
					q.Name, q.Concurrency, q.Overflow, stats.Pending, stats.Running)
			}

			return nil
		},
	}
}
