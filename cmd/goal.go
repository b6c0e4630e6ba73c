package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/zjrosen/kcal/internal/config"
)

var goalCmd = &cobra.Command{
	Use:   "goal [CALORIES]",
	Short: "Show or set the daily calorie goal",
	Long: `Show the daily calorie goal, or set it in the config file.

The goal is drawn as a progress bar under the total. 0 turns it off.

Examples:
  kcal goal
  kcal goal 2000
  kcal goal 0`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGoal,
}

func init() {
	rootCmd.AddCommand(goalCmd)
}

func runGoal(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if len(args) == 0 {
		if cfg.UI.DailyGoal <= 0 {
			_, err := fmt.Fprintln(out, "No daily goal set.")
			return err
		}
		_, err := fmt.Fprintf(out, "Daily goal: %d kcal\n", cfg.UI.DailyGoal)
		return err
	}

	goal, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid goal %q", args[0])
	}
	path := configFilePath()
	if err := config.SaveDailyGoal(path, goal); err != nil {
		return fmt.Errorf("saving daily goal: %w", err)
	}
	cfg.UI.DailyGoal = goal
	_, err = fmt.Fprintf(out, "Daily goal set to %d kcal in %s\n", goal, path)
	return err
}
