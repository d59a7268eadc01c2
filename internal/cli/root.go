package cli

import (
	"github.com/spf13/cobra"

	"fish-bot/internal/config"
)

var version = "dev"

func SetVersion(v string) {
	version = v
}

var configPath string

var rootCmd = &cobra.Command{
	Use:   "fish-bot",
	Short: "Plays the fishing mini-game in an emulator window",
	Long: `fish-bot watches the emulator window, recognises which fishing screen is
showing by template matching, and answers with clicks and drags: cast, hook,
reel, the direction challenge, and the next round.

Settings and calibrated button positions live in config.yaml, created with
defaults on first start. Running without a subcommand is the same as "run".`,
	SilenceUsage: true,
	RunE:         runBot,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "configuration file")
	rootCmd.Flags().BoolVar(&noTray, "no-tray", false, "run without the system tray icon")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(resetCmd)
}
