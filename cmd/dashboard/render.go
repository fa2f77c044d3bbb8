package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/Conversly/analytics-dashboard/internal/dashboard"
	"github.com/Conversly/analytics-dashboard/internal/types"
)

func newTable(out io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
}

func renderUsers(out io.Writer, users []types.User) {
	if len(users) == 0 {
		fmt.Fprintln(out, "No users yet")
		return
	}
	w := newTable(out)
	fmt.Fprintln(w, "ID\tEMAIL\tCREATED")
	for _, u := range users {
		fmt.Fprintf(w, "%s\t%s\t%s\n", u.ID, u.Email, u.CreatedAt.Local().Format(time.DateTime))
	}
	w.Flush()
}

func renderCharts(out io.Writer, charts []types.ChartData) {
	w := newTable(out)
	fmt.Fprintln(w, "ID\tMETRIC\tVALUE\tCHANGE")
	for i, card := range dashboard.Summarize(charts) {
		value := formatValue(card.Value)
		if charts[i].Name == "Customer Satisfaction" {
			value += "%"
		}
		change := card.Label()
		if change != "" && !card.Improved {
			change += " (!)"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", charts[i].ID, card.Name, value, change)
	}
	w.Flush()
}

func renderCalls(out io.Writer, rows []types.CallAnalytics) {
	w := newTable(out)
	fmt.Fprintln(w, "DATE\tTOTAL\tSUCCESSFUL\tFAILED\tAVG DURATION\tSATISFACTION")
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%ds\t%d%%\n", r.Date, r.TotalCalls, r.SuccessfulCalls, r.FailedCalls, r.AvgDuration, r.Satisfaction)
	}
	w.Flush()
}

func renderTransactions(out io.Writer, txs []types.Transaction) {
	if len(txs) == 0 {
		fmt.Fprintln(out, "No transactions yet")
		return
	}
	w := newTable(out)
	fmt.Fprintln(w, "ID\tTYPE\tAMOUNT\tSTATUS\tTIME")
	for _, tx := range txs {
		fmt.Fprintf(w, "%s\t%s\t%s %s\t%s\t%s\n", tx.ID, tx.Type, tx.Amount.StringFixed(2), tx.Currency, tx.Status, tx.Timestamp.Local().Format(time.DateTime))
	}
	w.Flush()
}

func renderTransaction(out io.Writer, tx types.Transaction) {
	w := newTable(out)
	fmt.Fprintf(w, "ID:\t%s\n", tx.ID)
	fmt.Fprintf(w, "Type:\t%s\n", tx.Type)
	fmt.Fprintf(w, "Amount:\t%s %s\n", tx.Amount.StringFixed(2), tx.Currency)
	fmt.Fprintf(w, "Status:\t%s\n", tx.Status)
	fmt.Fprintf(w, "User:\t%s\n", tx.UserID)
	fmt.Fprintf(w, "Time:\t%s\n", tx.Timestamp.Local().Format(time.DateTime))
	if tx.IdempotencyKey != "" {
		fmt.Fprintf(w, "Idempotency key:\t%s\n", tx.IdempotencyKey)
	}
	w.Flush()
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func ignoreCancel(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
