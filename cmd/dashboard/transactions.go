package main

import (
	"context"
	"fmt"

	"github.com/Conversly/analytics-dashboard/internal/dashboard"
	"github.com/Conversly/analytics-dashboard/internal/types"
	"github.com/spf13/cobra"
)

func txCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tx",
		Short: "Inspect and simulate transactions",
	}
	cmd.AddCommand(txListCmd(), txGetCmd(), txCreateCmd(), txWatchCmd())
	return cmd
}

func txListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := listUser(cmd)
			if err != nil {
				return err
			}
			txs, err := stack.TransactionService().List(cmd.Context(), userID)
			if err != nil {
				return err
			}
			renderTransactions(cmd.OutOrStdout(), txs)
			return nil
		},
	}
	addUserFlag(cmd)
	cmd.Flags().Bool("all", false, "List every user's transactions")
	return cmd
}

func txGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get [id]",
		Short: "Show one transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tx, err := stack.TransactionService().Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if tx == nil {
				return fmt.Errorf("transaction %s: %w", args[0], types.ErrNotFound)
			}
			renderTransaction(cmd.OutOrStdout(), *tx)
			return nil
		},
	}
}

func txCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Simulate a transaction webhook with a random amount and type",
		Long: `Simulate a transaction webhook. When the API is unreachable the
webhook is processed on this machine; settlement then only progresses while
a dashboard process is running, so use --wait or "tx watch".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := resolveUser(cmd)
			if err != nil {
				return err
			}
			sub, err := stack.TransactionService().Create(cmd.Context(), userID)
			if err != nil {
				return err
			}
			printSubmission(cmd, sub)

			if wait, _ := cmd.Flags().GetBool("wait"); wait {
				return waitSettled(cmd.Context(), cmd, sub)
			}
			return nil
		},
	}
	addUserFlag(cmd)
	cmd.Flags().Bool("wait", false, "Wait until a locally processed transaction settles")
	return cmd
}

func txWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Refresh the transaction list until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := listUser(cmd)
			if err != nil {
				return err
			}
			// Settle anything a previous run left behind while we watch.
			if _, err := stack.Processor.Resume(cmd.Context()); err != nil {
				return err
			}

			svc := stack.TransactionService()
			out := cmd.OutOrStdout()
			return ignoreCancel(dashboard.Poll(cmd.Context(), stack.Config.PollInterval, func(ctx context.Context) error {
				txs, err := svc.List(ctx, userID)
				if err != nil {
					return err
				}
				fmt.Fprint(out, "\033[H\033[2J")
				renderTransactions(out, txs)
				fmt.Fprintf(out, "\nRefreshing every %s, Ctrl-C to stop\n", stack.Config.PollInterval)
				return nil
			}))
		},
	}
	addUserFlag(cmd)
	cmd.Flags().Bool("all", false, "Watch every user's transactions")
	return cmd
}

func listUser(cmd *cobra.Command) (string, error) {
	if all, _ := cmd.Flags().GetBool("all"); all {
		return "", nil
	}
	return resolveUser(cmd)
}

func printSubmission(cmd *cobra.Command, sub *dashboard.Submission) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, sub.Message)
	if sub.Transaction != nil {
		renderTransaction(out, *sub.Transaction)
	}
}

func waitSettled(ctx context.Context, cmd *cobra.Command, sub *dashboard.Submission) error {
	if sub.Handle == nil {
		if !sub.Duplicate {
			fmt.Fprintln(cmd.ErrOrStderr(), "Processed remotely; use `dashboard tx watch` to follow it")
		}
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Waiting up to %s for settlement...\n", stack.Config.ProcessingDelay)
	select {
	case <-sub.Handle.Done():
		fmt.Fprintf(cmd.OutOrStdout(), "Transaction %s %s\n", sub.Handle.ID(), sub.Handle.Outcome())
		return nil
	case <-ctx.Done():
		fmt.Fprintln(cmd.ErrOrStderr(), "Interrupted; the transaction will settle on the next run")
		return ctx.Err()
	}
}
