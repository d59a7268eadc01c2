package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"fish-bot/internal/config"
)

var keepDirections bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Forget calibrated positions so the next run measures them again",
	Long: `Clear the layout block of the configuration file. Use after moving or
resizing the emulator window. --keep-directions keeps the direction buttons,
which only move when the game's own layout changes.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := config.Open(configPath)
		if err != nil {
			return err
		}

		layout := store.Layout()
		before := layout.Calibrated()
		layout.Reset(keepDirections)
		if err := store.SaveLayout(layout); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d of %d calibrated entries in %s\n",
			before-layout.Calibrated(), before, store.Path())
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolVar(&keepDirections, "keep-directions", false, "keep the direction button positions")
}
