package cli

import (
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/adlayout/pkg/palette"
)

type contrastReport struct {
	Foreground string          `json:"foreground"`
	Background string          `json:"background"`
	Result     palette.Result  `json:"result"`
	Required   float64         `json:"required"`
	Adjusted   string          `json:"adjusted,omitempty"`
	After      *palette.Result `json:"after,omitempty"`
}

func (c *CLI) contrastCommand() *cobra.Command {
	var size float64
	var weight int
	var fix, asJSON bool

	cmd := &cobra.Command{
		Use:   "contrast <foreground> <background>",
		Short: "Check the WCAG contrast of a color pair",
		Example: `  adlayout contrast "#777777" "#FFFFFF"
  adlayout contrast "#777777" "#FFFFFF" --size 32 --weight 700
  adlayout contrast "#777777" "#FFFFFF" --fix`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fg, bg := args[0], args[1]
			res, err := palette.Validate(fg, bg, size, weight)
			if err != nil {
				return err
			}
			rep := contrastReport{Foreground: fg, Background: bg, Result: res, Required: res.Required()}
			if fix && res.Ratio < rep.Required {
				adjusted, err := palette.AutoAdjust(fg, bg, rep.Required)
				if err != nil {
					return err
				}
				after, err := palette.Validate(adjusted, bg, size, weight)
				if err != nil {
					return err
				}
				rep.Adjusted, rep.After = adjusted, &after
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(rep)
			}
			printContrast(rep)
			return nil
		},
	}

	cmd.Flags().Float64Var(&size, "size", 16, "font size in px")
	cmd.Flags().IntVar(&weight, "weight", 400, "font weight")
	cmd.Flags().BoolVar(&fix, "fix", false, "suggest a foreground that passes AA")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	return cmd
}

func swatch(hex string) string {
	return lipgloss.NewStyle().Background(lipgloss.Color(hex)).Render("    ")
}

func passMark(ok bool) string {
	if ok {
		return StyleSuccess.Render(iconSuccess)
	}
	return styleIconError.Render(iconError)
}

func printContrast(rep contrastReport) {
	r := rep.Result
	fmt.Println(swatch(rep.Foreground) + swatch(rep.Background) + "  " + StyleNumber.Render(r.String()))
	fmt.Printf("  AA %s  AA large %s  AAA %s  AAA large %s\n",
		passMark(r.Passes.AA), passMark(r.Passes.AALarge), passMark(r.Passes.AAA), passMark(r.Passes.AAALarge))
	if r.LargeText {
		printDetail("large text, AA requires %.1f:1", rep.Required)
	} else {
		printDetail("normal text, AA requires %.1f:1", rep.Required)
	}
	switch {
	case rep.After != nil:
		printSuccess("Use %s %s (%s)", swatch(rep.Adjusted), StyleValue.Render(rep.Adjusted), rep.After.String())
	case r.Ratio < rep.Required:
		printNextStep("Find a passing color", "adlayout contrast ... --fix")
	}
}
