package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Conversly/analytics-dashboard/internal/app"
	"github.com/Conversly/analytics-dashboard/internal/config"
	"github.com/Conversly/analytics-dashboard/internal/types"
	"github.com/Conversly/analytics-dashboard/internal/utils"
	"github.com/spf13/cobra"
)

var Version = "dev"

// stack is opened before every command and closed once it returns.
var stack *app.App

func main() {
	rootCmd := &cobra.Command{
		Use:           "dashboard",
		Short:         "Call analytics dashboard and transaction webhook simulator",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if _, err := utils.InitLogger(cfg.LogLevel, cfg.Environment); err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			stack, err = app.New(cmd.Context(), cfg)
			return err
		},
	}

	rootCmd.AddCommand(loginCmd(), logoutCmd(), whoamiCmd(), usersCmd())
	rootCmd.AddCommand(chartsCmd(), editCmd(), callsCmd())
	rootCmd.AddCommand(txCmd(), webhookCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	closeStack()
	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func closeStack() {
	if stack == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), stack.Config.ShutdownTimeout)
	defer cancel()
	stack.Close(ctx)
	_ = utils.Zlog.Sync()
}

// resolveUser returns --user when given, else the logged-in user's id.
func resolveUser(cmd *cobra.Command) (string, error) {
	if userID, _ := cmd.Flags().GetString("user"); userID != "" {
		return userID, nil
	}
	user, err := stack.AuthService().CurrentUser(cmd.Context())
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", fmt.Errorf("not logged in: run `dashboard login <email>` or pass --user: %w", types.ErrNotFound)
	}
	return user.ID, nil
}

func addUserFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("user", "u", "", "User ID (defaults to the logged-in user)")
}
