package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/adlayout/pkg/palette"
)

type paletteReport struct {
	Base       string             `json:"base"`
	Accessible palette.Accessible `json:"accessible"`
	Schemes    []palette.Scheme   `json:"schemes"`
}

func buildPaletteReport(base string) (paletteReport, error) {
	acc, err := palette.AccessiblePalette(base)
	if err != nil {
		return paletteReport{}, err
	}
	schemes, err := palette.Schemes(acc.Primary)
	if err != nil {
		return paletteReport{}, err
	}
	return paletteReport{Base: acc.Primary, Accessible: acc, Schemes: schemes}, nil
}

func (c *CLI) paletteCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "palette <color>",
		Short: "Derive an accessible palette and harmony schemes from a brand color",
		Example: `  adlayout palette "#2563EB"
  adlayout palette "#C9A96E" --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rep, err := buildPaletteReport(args[0])
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(rep)
			}
			printPalette(rep)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	return cmd
}

func printPalette(rep paletteReport) {
	a := rep.Accessible
	fmt.Println(StyleTitle.Render("Accessible palette"))
	for _, row := range [][2]string{
		{"primary", a.Primary},
		{"secondary", a.Secondary},
		{"text", a.Text},
		{"background", a.Background},
		{"background alt", a.BackgroundAlt},
	} {
		fmt.Printf("  %s %-15s %s\n", swatch(row[1]), row[0], StyleValue.Render(row[1]))
	}
	fmt.Println()
	fmt.Println(StyleTitle.Render("Schemes"))
	for _, s := range rep.Schemes {
		var sw strings.Builder
		for _, c := range s.Colors {
			sw.WriteString(swatch(c))
		}
		fmt.Printf("  %s %-20s %s\n", sw.String(), s.Name, StyleNumber.Render(fmt.Sprintf("%.0f", s.Harmony.Overall)))
	}
}
