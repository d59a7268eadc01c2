package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vcaesar/imgo"

	"fish-bot/internal/config"
	"fish-bot/internal/fishing"
	"fish-bot/internal/vision"
	"fish-bot/internal/vision/cvmatch"
)

var inspectOut string

var inspectCmd = &cobra.Command{
	Use:   "inspect <screenshot.png>",
	Short: "Classify a saved screenshot without touching the game",
	Long: `Run the recognition on a saved screenshot of the game window and report
which cues are visible, which phase each state would move to, and the best
score of every reference image. An annotated copy is written to --out.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		img, err := imgo.Read(args[0])
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}

		set, err := vision.LoadTemplates(cfg.ImageDir, vision.ScaleFor(img.Bounds().Dx(), cfg.ReferenceWidth))
		if err != nil {
			return err
		}
		matcher, err := cvmatch.New(set)
		if err != nil {
			return err
		}
		defer matcher.Close()

		scene, err := matcher.Open(img)
		if err != nil {
			return err
		}
		defer scene.Close()

		report, err := fishing.Inspect(scene, cfg.MatchThreshold)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s (%dx%d, templates from %s x%.3f)\n\n",
			args[0], img.Bounds().Dx(), img.Bounds().Dy(), set.Dir(), set.Scale())
		report.Print(out, cfg.MatchThreshold)

		if err := vision.SaveImage(inspectOut, vision.Annotate(img, report.Marks(cfg.MatchThreshold))); err != nil {
			return err
		}
		fmt.Fprintf(out, "\nAnnotated copy saved to %s\n", inspectOut)
		return nil
	},
}

func init() {
	inspectCmd.Flags().StringVarP(&inspectOut, "out", "o", "result.png", "annotated output image")
}
