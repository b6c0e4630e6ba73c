package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/zjrosen/kcal/internal/coordinator"
	"github.com/zjrosen/kcal/internal/presentation"
	"github.com/zjrosen/kcal/internal/registry"
)

var (
	listJSON bool
	clearYes bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the stored items and their total",
	Long: `Print every stored item with its calories, followed by the total.

Examples:
  kcal list
  kcal list --json | jq '.total'`,
	Args: cobra.NoArgs,
	RunE: runList,
}

var addCmd = &cobra.Command{
	Use:   "add NAME CALORIES",
	Short: "Add an item",
	Long: `Add an item and save the list.

CALORIES is read the way the form reads it: a leading integer, with anything
after it ignored. A value that does not start with a number is stored as NaN
and makes the total NaN.

Examples:
  kcal add Steak 1200
  kcal add "Chocolate cookie" 400`,
	Args: cobra.ExactArgs(2),
	RunE: runAdd,
}

var editCmd = &cobra.Command{
	Use:   "edit ID NAME CALORIES",
	Short: "Replace the name and calories of an item",
	Args:  cobra.ExactArgs(3),
	RunE:  runEdit,
}

var deleteCmd = &cobra.Command{
	Use:     "delete ID",
	Aliases: []string{"rm"},
	Short:   "Delete an item",
	Args:    cobra.ExactArgs(1),
	RunE:    runDelete,
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every item",
	Args:  cobra.NoArgs,
	RunE:  runClear,
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "print JSON instead of a table")
	clearCmd.Flags().BoolVarP(&clearYes, "yes", "y", false, "skip the confirmation check")

	rootCmd.AddCommand(listCmd, addCmd, editCmd, deleteCmd, clearCmd)
}

// withCoordinator opens a session, loads the stored items and runs fn. A
// failed load aborts the command so a later save cannot overwrite data that
// was only unreadable.
func withCoordinator(cmd *cobra.Command, fn func(context.Context, *coordinator.Coordinator, *presentation.TextPresenter) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	sess, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()

	view := presentation.NewTextPresenter(cmd.OutOrStdout())
	coord := coordinator.New(registry.New(), sess.store, view, sess.coordinatorOptions()...)
	if err := coord.Init(ctx); err != nil {
		return err
	}
	return fn(ctx, coord, view)
}

func printTotal(cmd *cobra.Command, total registry.Calories) {
	fmt.Fprintf(cmd.OutOrStdout(), "Total: %s kcal\n", total)
}

func parseID(raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid item id %q", raw)
	}
	return id, nil
}

func runList(cmd *cobra.Command, _ []string) error {
	return withCoordinator(cmd, func(_ context.Context, coord *coordinator.Coordinator, _ *presentation.TextPresenter) error {
		formatter := presentation.NewFormatter(cmd.OutOrStdout())
		list := presentation.FromItems(coord.Items(), coord.Total(), cfg.UI.DailyGoal)
		if listJSON {
			return formatter.FormatJSON(list)
		}
		return formatter.FormatTable(list)
	})
}

func runAdd(cmd *cobra.Command, args []string) error {
	return withCoordinator(cmd, func(ctx context.Context, coord *coordinator.Coordinator, view *presentation.TextPresenter) error {
		if _, err := coord.AddSubmit(ctx, args[0], args[1]); err != nil {
			return err
		}
		printTotal(cmd, view.Total())
		return nil
	})
}

func runEdit(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	return withCoordinator(cmd, func(ctx context.Context, coord *coordinator.Coordinator, view *presentation.TextPresenter) error {
		if _, err := coord.EditItem(ctx, id); err != nil {
			return err
		}
		if _, err := coord.UpdateSubmit(ctx, args[1], args[2]); err != nil {
			return err
		}
		printTotal(cmd, view.Total())
		return nil
	})
}

func runDelete(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	return withCoordinator(cmd, func(ctx context.Context, coord *coordinator.Coordinator, view *presentation.TextPresenter) error {
		if _, err := coord.EditItem(ctx, id); err != nil {
			return err
		}
		if _, err := coord.DeleteSubmit(ctx); err != nil {
			return err
		}
		printTotal(cmd, view.Total())
		return nil
	})
}

func runClear(cmd *cobra.Command, _ []string) error {
	return withCoordinator(cmd, func(ctx context.Context, coord *coordinator.Coordinator, _ *presentation.TextPresenter) error {
		n := len(coord.Items())
		if n > 0 && !clearYes {
			return fmt.Errorf("refusing to delete %d items without --yes", n)
		}
		if err := coord.ClearAll(ctx); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "cleared %d items\n", n)
		return nil
	})
}
