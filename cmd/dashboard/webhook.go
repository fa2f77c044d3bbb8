package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Conversly/analytics-dashboard/internal/dashboard"
	"github.com/spf13/cobra"
)

func webhookCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "webhook",
		Short: "Deliver transaction webhooks",
	}

	submit := &cobra.Command{
		Use:   "submit",
		Short: "Deliver one payload or a JSON array of payloads",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("file")
			var in io.Reader = cmd.InOrStdin()
			if path != "-" {
				f, err := os.Open(path)
				if err != nil {
					return fmt.Errorf("failed to open file: %w", err)
				}
				defer f.Close()
				in = f
			}

			payloads, err := dashboard.ReadPayloads(in, time.Now())
			if err != nil {
				return err
			}

			svc := stack.TransactionService()
			wait, _ := cmd.Flags().GetBool("wait")
			var pending []*dashboard.Submission
			for _, p := range payloads {
				sub, err := svc.Submit(cmd.Context(), p)
				if err != nil {
					return fmt.Errorf("webhook %s: %w", p.IdempotencyKey, err)
				}
				printSubmission(cmd, sub)
				if sub.Handle != nil {
					pending = append(pending, sub)
				}
			}
			if wait {
				for _, sub := range pending {
					if err := waitSettled(cmd.Context(), cmd, sub); err != nil {
						return err
					}
				}
			}
			return nil
		},
	}
	submit.Flags().StringP("file", "f", "-", "Payload file, - for stdin")
	submit.Flags().Bool("wait", false, "Wait until locally processed transactions settle")

	cmd.AddCommand(submit)
	return cmd
}
