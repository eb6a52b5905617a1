package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/orderdesk/internal/app"
	"github.com/Additional-Code/orderdesk/internal/board"
	"github.com/Additional-Code/orderdesk/internal/config"
	"github.com/Additional-Code/orderdesk/internal/confirm"
	"github.com/Additional-Code/orderdesk/internal/migration"
	"github.com/Additional-Code/orderdesk/internal/notify"
	"github.com/Additional-Code/orderdesk/internal/seeder"
	serviceorder "github.com/Additional-Code/orderdesk/internal/service/order"
)

// NewRootCommand builds the root orderdesk CLI command.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "orderdesk",
		Short: "Order dashboard toolkit",
	}

	root.AddCommand(newStartCmd())
	root.AddCommand(newMigrateCmd())
	root.AddCommand(newSeedCmd())
	root.AddCommand(newWorkerCmd())
	root.AddCommand(newOrdersCmd())

	return root
}

// Execute runs the orderdesk CLI.
func Execute() error {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return err
	}
	return nil
}

func newStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "start",
		Aliases: []string{"run"},
		Short:   "Run the HTTP service",
		RunE: func(cmd *cobra.Command, args []string) error {
			application := fx.New(app.Module)
			if err := application.Start(cmd.Context()); err != nil {
				return err
			}
			<-cmd.Context().Done()
			stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return application.Stop(stopCtx)
		},
	}
}

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations (sql drivers only)",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			var mig *migration.Migrator
			opts := fx.Options(app.Core, migration.Module, fx.Populate(&mig))
			return runWithApp(cmd.Context(), opts, func(ctx context.Context) error {
				if err := mig.Up(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
				return nil
			})
		},
	}

	downCmd := &cobra.Command{
		Use:   "down",
		Short: "Rollback migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			steps, _ := cmd.Flags().GetInt("steps")
			all, _ := cmd.Flags().GetBool("all")
			var mig *migration.Migrator
			opts := fx.Options(app.Core, migration.Module, fx.Populate(&mig))
			return runWithApp(cmd.Context(), opts, func(ctx context.Context) error {
				if err := mig.Down(ctx, steps, all); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "migrations rolled back")
				return nil
			})
		},
	}
	downCmd.Flags().Int("steps", 1, "Number of migration steps to rollback")
	downCmd.Flags().Bool("all", false, "Rollback all applied migrations")

	cmd.AddCommand(upCmd, downCmd)
	return cmd
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed sample orders",
		RunE: func(cmd *cobra.Command, args []string) error {
			var seed *seeder.Seeder
			opts := fx.Options(app.Core, seeder.Module, fx.Populate(&seed))
			return runWithApp(cmd.Context(), opts, func(ctx context.Context) error {
				if err := seed.Orders(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "seed data applied")
				return nil
			})
		},
	}
}

func newWorkerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Manage background workers",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "run",
		Short: "Run worker engine",
		RunE: func(cmd *cobra.Command, args []string) error {
			application := fx.New(app.Worker)
			if err := application.Start(cmd.Context()); err != nil {
				return err
			}
			<-cmd.Context().Done()
			stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return application.Stop(stopCtx)
		},
	})
	return cmd
}

func newOrdersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Work with the order board from the terminal",
	}
	cmd.AddCommand(newOrdersListCmd())
	cmd.AddCommand(newOrdersToggleCmd())
	cmd.AddCommand(newOrdersSetCmd())
	cmd.AddCommand(newOrdersDeleteCmd())
	return cmd
}

func newOrdersListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Render the order board and its summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBoard(cmd, confirm.Confirmed(false), func(ctx context.Context, b *board.Board) error {
				b.Refresh(ctx)
				return renderBoard(cmd, b)
			})
		},
	}
}

func newOrdersToggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id> <havePaid|haveSend>",
		Short: "Flip a status flag on an order",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBoard(cmd, confirm.Confirmed(false), func(ctx context.Context, b *board.Board) error {
				b.Refresh(ctx)
				return b.ToggleFlag(ctx, args[0], args[1])
			})
		},
	}
}

func newOrdersSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <id> <havePaid|haveSend> <true|false>",
		Short: "Set a status flag to an explicit value",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := strconv.ParseBool(args[2])
			if err != nil {
				return fmt.Errorf("invalid flag value %q", args[2])
			}
			var svc *serviceorder.Service
			opts := fx.Options(app.Core, fx.Populate(&svc))
			return runWithApp(cmd.Context(), opts, func(ctx context.Context) error {
				if err := svc.SetFlag(ctx, args[0], args[1], value); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s=%v\n", args[0], args[1], value)
				return nil
			})
		},
	}
}

func newOrdersDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an order (prompts; irreversible)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			yes, _ := cmd.Flags().GetBool("yes")
			var gate confirm.Gate = confirm.Prompt{R: cmd.InOrStdin(), W: cmd.OutOrStdout()}
			if yes {
				gate = confirm.Confirmed(true)
			}
			return withBoard(cmd, gate, func(ctx context.Context, b *board.Board) error {
				return b.DeleteOrder(ctx, args[0])
			})
		},
	}
	cmd.Flags().Bool("yes", false, "Skip the confirmation prompt")
	return cmd
}

// withBoard boots the core modules and hands a terminal-facing board to fn.
func withBoard(cmd *cobra.Command, gate confirm.Gate, fn func(context.Context, *board.Board) error) error {
	var (
		svc    *serviceorder.Service
		cfg    config.Config
		logger *zap.Logger
	)
	opts := fx.Options(app.Core, fx.Populate(&svc, &cfg, &logger))
	return runWithApp(cmd.Context(), opts, func(ctx context.Context) error {
		b := board.New(svc, gate, notify.NewWriterSink(cmd.OutOrStdout()), logger, boardConfig(cfg))
		return fn(ctx, b)
	})
}

func runWithApp(ctx context.Context, opts fx.Option, fn func(context.Context) error) error {
	application := fx.New(opts, fx.NopLogger)
	if err := application.Start(ctx); err != nil {
		return err
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = application.Stop(stopCtx)
	}()
	return fn(ctx)
}
