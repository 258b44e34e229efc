package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/adlayout/pkg/grid"
)

func (c *CLI) gridCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:       "grid [format]",
		Short:     "Show the grid of an output format",
		Example:   "  adlayout grid story\n  adlayout grid landscape --json",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"square", "story", "landscape", "portrait"},
		RunE: func(cmd *cobra.Command, args []string) error {
			f := c.Config.Compose.Format
			if len(args) == 1 {
				parsed, err := grid.ParseFormat(args[0])
				if err != nil {
					return err
				}
				f = parsed
			}
			cfg, err := grid.ConfigFor(f)
			if err != nil {
				return err
			}
			overlay := grid.NewOverlay(cfg)
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(struct {
					Config  grid.Config  `json:"config"`
					Overlay grid.Overlay `json:"overlay"`
				}{cfg, overlay})
			}
			printGrid(cfg, overlay)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print config and overlay as JSON")
	return cmd
}

func printGrid(cfg grid.Config, o grid.Overlay) {
	fmt.Println(StyleTitle.Render(string(cfg.Format)))
	printKeyValue("Canvas", fmt.Sprintf("%.0f × %.0f", cfg.Width, cfg.Height))
	printKeyValue("Columns", fmt.Sprintf("%d × %.1fpx, gutter %.0f", cfg.Columns, cfg.ColumnWidth(), cfg.Gutter))
	printKeyValue("Rows", fmt.Sprintf("%d × %.0fpx", cfg.Rows(), grid.RowHeight))
	printKeyValue("Margins", fmt.Sprintf("%.0f / %.0f", cfg.MarginX, cfg.MarginY))
	sa := o.SafeArea
	printKeyValue("Safe area", fmt.Sprintf("(%.0f, %.0f) %.0f × %.0f", sa.X, sa.Y, sa.Width, sa.Height))
	if len(o.Columns) > 0 {
		first, last := o.Columns[0], o.Columns[len(o.Columns)-1]
		printDetail("columns span x %.0f to %.0f", first.X, last.Right())
	}
}
