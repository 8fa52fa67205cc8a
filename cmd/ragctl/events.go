package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"classroom-ai-be/internal/config"
	"classroom-ai-be/pkg/events"
	pktNats "classroom-ai-be/pkg/nats"

	"github.com/spf13/cobra"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Inspect the event stream",
}

var eventsWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print index, deployment and feedback events as they arrive",
	Args:  cobra.NoArgs,
	RunE:  runEventsWatch,
}

var durableName string

func init() {
	eventsWatchCmd.Flags().StringVar(&durableName, "durable", "ragctl-watch", "JetStream durable consumer name")

	eventsCmd.AddCommand(eventsWatchCmd)
	rootCmd.AddCommand(eventsCmd)
}

func runEventsWatch(cmd *cobra.Command, _ []string) error {
	cfg := config.Load()
	if cfg.App.NatsURL == "" {
		return fmt.Errorf("NATS_URL is not set")
	}

	sub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		return err
	}
	defer sub.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	err = sub.Subscribe(ctx, events.Subject(">"), durableName, func(_ context.Context, e events.Event) error {
		printEvent(cmd, e)
		return nil
	})
	if err != nil {
		return err
	}

	okColor.Fprintf(out, "watching %s (ctrl-c to stop)\n", events.Subject(">"))
	<-ctx.Done()
	return nil
}

func printEvent(cmd *cobra.Command, e events.Event) {
	out := cmd.OutOrStdout()
	keyColor.Fprintf(out, "%s %s", e.Timestamp().Format("15:04:05"), e.EventType())

	payload := e.Payload()
	keys := make([]string, 0, len(payload))
	for k := range payload {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(out, " %s=%v", k, payload[k])
	}
	fmt.Fprintln(out)
}
