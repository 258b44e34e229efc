package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/adlayout/pkg/document"
	"github.com/matzehuels/adlayout/pkg/errors"
	"github.com/matzehuels/adlayout/pkg/grid"
	"github.com/matzehuels/adlayout/pkg/pipeline"
	"github.com/matzehuels/adlayout/pkg/templates"
	"github.com/matzehuels/adlayout/pkg/variation"
)

// generateOpts holds the command-line flags for the generate command.
type generateOpts struct {
	pipeline pipeline.Options
	image    string // product image path
	pick     bool   // choose the exported variation interactively
	export   string // document file for the chosen variation
	json     bool
	save     bool
	noCache  bool
}

func (c *CLI) generateCommand() *cobra.Command {
	var opts generateOpts
	var format, goal string
	o := &opts.pipeline

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate ranked design variations",
		Long: `Generate searches the archetypes that fit the campaign, mutates each into
design variations and keeps the best ones. With a product image the layout
adapts to the detected product and its free space.`,
		Example: `  adlayout generate --product "Sneaker X" --primary "#FF6B35" --offer
  adlayout generate --product "Lamp" --primary "#2B2D42" --image lamp.png --pick --export lamp.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o.Format = grid.Format(format)
			o.Goal = templates.Goal(goal)
			if o.Format == "" {
				o.Format = c.Config.Compose.Format
			}
			if o.CTAText == "" {
				o.CTAText = c.Config.Compose.CTAText
			}
			if opts.image != "" {
				data, err := readFile(opts.image)
				if err != nil {
					return err
				}
				o.ProductImage = data
			}
			return c.runGenerate(cmd.Context(), cmd.OutOrStdout(), &opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.ProductName, "product", "", "product name (required)")
	f.StringVar(&o.Description, "description", "", "product description")
	f.StringVar(&o.BrandName, "brand", "", "brand name")
	f.StringVar(&o.CTAText, "cta", "", "call-to-action label (default from config)")
	f.StringVar(&o.Category, "category", "", "product category, e.g. luxury or ecommerce")
	f.StringVar(&o.Tone, "tone", "", "tone: modern, bold, playful, professional, luxury, elegant")
	f.StringVar(&goal, "goal", "", "campaign goal: awareness, consideration, conversion")
	f.BoolVar(&o.HasOffer, "offer", false, "the ad carries an offer")
	f.StringVar(&o.Colors.Primary, "primary", "", "primary brand color (#RRGGBB, required)")
	f.StringVar(&o.Colors.Secondary, "secondary", "", "secondary brand color")
	f.StringVar(&o.Colors.Accent, "accent", "", "accent color")
	f.StringVar(&format, "format", "", "format: square, story, landscape, portrait (default from config)")
	f.StringVar(&opts.image, "image", "", "product image file (PNG, JPEG, GIF, BMP, TIFF, WebP)")
	f.IntVarP(&o.Count, "count", "n", 0, "number of variations to keep (default 50)")
	f.Float64Var(&o.MinQuality, "min-quality", 0, "minimum overall score (default 70)")
	f.IntVar(&o.MaxTemplates, "max-templates", 0, "number of archetypes to search (default 5)")
	f.BoolVar(&o.Refresh, "refresh", false, "regenerate variations even when cached")
	f.BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	f.BoolVar(&opts.pick, "pick", false, "choose the exported variation interactively")
	f.StringVar(&opts.export, "export", "", "write the best (or picked) variation as a document")
	f.BoolVar(&opts.json, "json", false, "print the result as JSON")
	f.BoolVar(&opts.save, "save", false, "save the exported document to the document store")

	return cmd
}

func (c *CLI) runGenerate(ctx context.Context, w io.Writer, opts *generateOpts) error {
	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Generating variations...")
	spinner.Start()
	res, err := runner.Orchestrate(ctx, opts.pipeline)
	if err != nil {
		spinner.StopWithError("Generation failed")
		return err
	}
	spinner.Stop()

	if opts.json {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	printResult(res)

	chosen, ok := res.Best()
	if !ok {
		printWarning("No variation reached the quality floor")
		printDetail("Lower --min-quality or add colors")
		return nil
	}
	if opts.pick {
		picked, err := pickVariation(res.Variations)
		if err != nil {
			return err
		}
		if picked == nil {
			printInfo("Nothing selected")
			return nil
		}
		chosen = *picked
	}

	if opts.export == "" && !opts.save {
		printNextStep("Export the best variation", "adlayout generate ... --export ad.json")
		return nil
	}
	return c.exportVariation(ctx, chosen, res, opts)
}

// printResult prints the ranked variations and a telemetry summary.
func printResult(res *pipeline.Result) {
	fmt.Println()
	fmt.Println(variationTable(res.Variations, 0, len(res.Variations), -1))

	t := res.Telemetry
	printSuccess("%s variations from %s templates in %s",
		StyleNumber.Render(fmt.Sprintf("%d", len(res.Variations))),
		StyleNumber.Render(fmt.Sprintf("%d", t.TemplatesAnalyzed)),
		t.TotalTime.Round(1e6))
	if res.Adaptive != nil {
		printDetail("adaptive layout: balance %s, product at %s",
			formatScore(res.Adaptive.Balance.Score), res.Adaptive.Analysis.Composition.DominantSide)
	}
	if t.HeuristicFallback {
		printWarning("Image analysis unavailable, using the default product placement")
	}
	if res.CacheInfo.AnalysisHit || res.CacheInfo.VariationHit > 0 {
		printDetail("cache: analysis %t, variations %d/%d",
			res.CacheInfo.AnalysisHit, res.CacheInfo.VariationHit, t.TemplatesAnalyzed)
	}
}

// pickVariation runs the interactive picker. It returns nil when the user
// quits without choosing.
func pickVariation(vs []variation.Variation) (*variation.Variation, error) {
	final, err := tea.NewProgram(NewVariationPicker(vs)).Run()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "variation picker")
	}
	return final.(VariationPicker).Selected, nil
}

func (c *CLI) exportVariation(ctx context.Context, v variation.Variation, res *pipeline.Result, opts *generateOpts) error {
	doc, violations, err := pipeline.Export(v, res.Adaptive, res.Options)
	if err != nil {
		return err
	}
	printSuccess("Exported variation %s", StyleNumber.Render(v.ID))
	for _, viol := range violations {
		printWarning("%s", viol)
	}
	if opts.export != "" {
		if err := document.ExportJSON(doc, opts.export); err != nil {
			return err
		}
		printFile(opts.export)
	}
	if opts.save {
		st, err := c.openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close(ctx)
		if err := st.Save(ctx, doc); err != nil {
			return err
		}
		printSuccess("Saved %s", StyleNumber.Render(doc.ID))
	}
	return nil
}
