package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) analyzeCommand() *cobra.Command {
	var asJSON, noCache bool

	cmd := &cobra.Command{
		Use:   "analyze <image>",
		Short: "Analyze a product image",
		Long: `Analyze locates the product in an image and reports its bounding box, visual
weight, free space for text and colors. When analysis fails a default
placement is reported and marked as heuristic.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			data, err := readFile(args[0])
			if err != nil {
				return err
			}
			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			spinner := newSpinnerWithContext(ctx, "Analyzing image...")
			spinner.Start()
			a, cached := runner.Analyze(ctx, data)
			if spinner.Cancelled() {
				spinner.Stop()
				return ctx.Err()
			}
			spinner.Stop()

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(a)
			}

			if a.Heuristic {
				printWarning("Analysis unavailable, showing the default placement")
			} else if cached {
				printSuccess("Analysis %s", styleCached.Render(iconCached))
			} else {
				printSuccess("Analyzed %s", args[0])
			}
			b := a.BoundingBox
			printKeyValue("Canvas", fmt.Sprintf("%.0f × %.0f", a.Canvas.Width, a.Canvas.Height))
			printKeyValue("Product", fmt.Sprintf("(%.0f, %.0f) %.0f × %.0f", b.X, b.Y, b.Width, b.Height))
			w := a.VisualWeight
			printKeyValue("Weight", fmt.Sprintf("L %.0f  R %.0f  T %.0f  B %.0f  C %.0f", w.Left, w.Right, w.Top, w.Bottom, w.Center))
			printKeyValue("Dominant", fmt.Sprintf("%s / %s", a.Composition.DominantSide, a.Composition.DominantVertical))
			printKeyValue("Colors", swatch(a.Colors.Dominant)+" "+a.Colors.Dominant+"  "+swatch(a.Colors.Accent)+" "+a.Colors.Accent)
			for _, fs := range a.FreeSpaces {
				printDetail("free %-6s suitability %.0f", fs.Region, fs.Suitability)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the analysis as JSON")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the analysis cache")
	return cmd
}
