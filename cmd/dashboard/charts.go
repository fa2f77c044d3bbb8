package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Conversly/analytics-dashboard/internal/dashboard"
	"github.com/Conversly/analytics-dashboard/internal/types"
	"github.com/spf13/cobra"
)

func chartsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "charts",
		Short: "Show call metrics and their change since the last edit",
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := resolveUser(cmd)
			if err != nil {
				return err
			}
			charts, err := stack.AnalyticsService().ChartData(cmd.Context(), userID)
			if err != nil {
				return err
			}
			renderCharts(cmd.OutOrStdout(), charts)
			return nil
		},
	}
	addUserFlag(cmd)
	return cmd
}

func editCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit [metric] [value]",
		Short: "Set a metric's value; overwriting an edited value asks first",
		Long: `Set a metric's value. The metric is matched by id or by name
(case-insensitive, e.g. "failed calls"). The old value is kept as the
previous value; if the metric was already edited you are asked to confirm
unless --yes is given.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := resolveUser(cmd)
			if err != nil {
				return err
			}
			svc := stack.AnalyticsService()
			charts, err := svc.ChartData(cmd.Context(), userID)
			if err != nil {
				return err
			}
			chart, ok := findChart(charts, args[0])
			if !ok {
				return fmt.Errorf("metric %q: %w", args[0], types.ErrNotFound)
			}

			edit, err := dashboard.BeginEdit(chart, args[1])
			if err != nil {
				return err
			}

			confirmed, _ := cmd.Flags().GetBool("yes")
			if edit.NeedsConfirmation() && !confirmed {
				question := fmt.Sprintf("%s was already edited (previous %s). Overwrite %s with %s?",
					chart.Name, formatValue(*chart.PreviousValue), formatValue(chart.Value), formatValue(edit.NewValue))
				confirmed = confirm(cmd.InOrStdin(), cmd.OutOrStdout(), question)
			}

			updated, err := edit.Commit(cmd.Context(), svc, confirmed)
			if errors.Is(err, types.ErrConfirmationRequired) {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled, nothing changed")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s -> %s\n", updated.Name, formatValue(chart.Value), formatValue(updated.Value))
			return nil
		},
	}
	addUserFlag(cmd)
	cmd.Flags().BoolP("yes", "y", false, "Overwrite without asking")
	return cmd
}

func callsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calls",
		Short: "Show the last seven days of call analytics",
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := resolveUser(cmd)
			if err != nil {
				return err
			}
			rows, err := stack.AnalyticsService().CallAnalytics(cmd.Context(), userID)
			if err != nil {
				return err
			}
			renderCalls(cmd.OutOrStdout(), rows)
			return nil
		},
	}
	addUserFlag(cmd)
	return cmd
}

func findChart(charts []types.ChartData, ref string) (types.ChartData, bool) {
	for _, c := range charts {
		if c.ID == ref || strings.EqualFold(c.Name, ref) {
			return c, true
		}
	}
	return types.ChartData{}, false
}

func confirm(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N] ", question)
	answer, _ := bufio.NewReader(in).ReadString('\n')
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
