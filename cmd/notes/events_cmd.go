package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/notes/internal/events"
	"github.com/alfredjeanlab/notes/internal/ui"
)

var eventsCmd = &cobra.Command{
	Use:     "events",
	Short:   "Tail note mutation events from the server's NATS bus",
	GroupID: "system",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		natsURL, _ := cmd.Flags().GetString("nats")
		topic, _ := cmd.Flags().GetString("topic")
		jsonOut, _ := cmd.Flags().GetBool("json")

		if natsURL == "" {
			t, err := currentTarget()
			if err != nil {
				return err
			}
			natsURL = t.NATSURL
		}
		if natsURL == "" {
			return fmt.Errorf("no NATS URL: pass --nats, set NOTES_NATS_URL or add one with 'notes remote add --nats'")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		sub, err := events.NewNATSSubscriber(natsURL)
		if err != nil {
			return err
		}
		defer sub.Close()

		ch, cancel, err := sub.Subscribe(topic)
		if err != nil {
			return err
		}
		defer cancel()
		logger.Debug("subscribed", "nats_url", natsURL, "topic", topic)

		out := cmd.OutOrStdout()
		enc := json.NewEncoder(out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case msg, ok := <-ch:
				if !ok {
					return nil
				}
				if jsonOut {
					if err := enc.Encode(struct {
						Topic string          `json:"topic"`
						Data  json.RawMessage `json:"data"`
					}{msg.Topic, msg.Data}); err != nil {
						return err
					}
					continue
				}
				fmt.Fprintf(out, "%s %s %s\n",
					ui.RenderMuted(time.Now().Format(time.TimeOnly)),
					ui.RenderAccent(msg.Topic),
					msg.Data)
			}
		}
	},
}

func init() {
	eventsCmd.Flags().String("nats", os.Getenv("NOTES_NATS_URL"), "NATS server URL")
	eventsCmd.Flags().String("topic", events.TopicAll, "subject to subscribe to")
	eventsCmd.Flags().Bool("json", false, "print one JSON object per event")
}
