package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/adlayout/pkg/templates"
)

func (c *CLI) templatesCommand() *cobra.Command {
	var tc templates.Context
	var goal string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List archetypes ranked for a campaign context",
		Example: `  adlayout templates
  adlayout templates --offer --goal conversion
  adlayout templates --tone luxury --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tc.Goal = templates.Goal(goal)
			ranked := templates.Rank(tc)
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(ranked)
			}
			fmt.Println(templateTable(ranked))
			printDetail("selected: %s", ranked[0].Definition.ID)
			return nil
		},
	}

	cmd.Flags().BoolVar(&tc.HasOffer, "offer", false, "the ad carries an offer")
	cmd.Flags().StringVar(&goal, "goal", "", "campaign goal: awareness, consideration, conversion")
	cmd.Flags().StringVar(&tc.Tone, "tone", "", "brand tone")
	cmd.Flags().StringVar(&tc.ProductType, "product-type", "", "product type, e.g. luxury or ecommerce")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the ranking as JSON")

	return cmd
}

func templateTable(ranked []templates.Candidate) string {
	rows := make([][]string, 0, len(ranked))
	for _, c := range ranked {
		d := c.Definition
		rows = append(rows, []string{
			d.ID,
			d.Name,
			fmt.Sprintf("%.0f", c.Suitability),
			strings.Join(d.BestFor, ", "),
		})
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Template", "Name", "Fit", "Best for").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return styleHeader
			case col == 2:
				return scoreStyle(ranked[row].Suitability)
			case row == 0:
				return lipgloss.NewStyle().Foreground(colorCyan)
			}
			return lipgloss.NewStyle().Foreground(colorGray)
		})
	return t.Render()
}
