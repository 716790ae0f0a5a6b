package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/flo/internal/app"
)

func (c *CLI) newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [tasks...]",
		Short: "Run pipeline tasks with their prerequisites",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			all, _ := cmd.Flags().GetBool("all")
			force, _ := cmd.Flags().GetBool("force")

			if len(args) == 0 && !all {
				// Display command usage help without returning an error
				_ = cmd.Help()
				return nil
			}

			return c.app.Run(cmd.Context(), args, app.RunOptions{
				All:   all,
				Force: force,
			})
		},
	}
	cmd.Flags().BoolP("all", "a", false, "Run every task feeding an exported file")
	cmd.Flags().BoolP("force", "f", false, "Bypass the build cache and force execution")
	return cmd
}
