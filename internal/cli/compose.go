package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/adlayout/pkg/compose"
	"github.com/matzehuels/adlayout/pkg/document"
	"github.com/matzehuels/adlayout/pkg/errors"
	"github.com/matzehuels/adlayout/pkg/grid"
	"github.com/matzehuels/adlayout/pkg/templates"
)

// composeOpts holds the command-line flags for the compose command.
type composeOpts struct {
	input     compose.Input
	noEnforce bool
	formats   string // comma-separated formats, or "all"
	variants  bool   // compose once per archetype
	output    string // document file, or base path for several documents
	json      bool   // print the full output as JSON
	save      bool   // store documents in the document store
	noCache   bool
}

func (c *CLI) composeCommand() *cobra.Command {
	var opts composeOpts
	var format, pattern, goal string
	in := &opts.input

	cmd := &cobra.Command{
		Use:   "compose",
		Short: "Compose an ad from content and brand colors",
		Example: `  adlayout compose --headline "Summer Sale" --product "Sneaker X" --offer
  adlayout compose --headline "New in" --product "Lamp" --formats all -o lamp
  adlayout compose --headline "New in" --product "Lamp" --variants --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Format = grid.Format(format)
			in.Pattern = templates.Pattern(pattern)
			in.Goal = templates.Goal(goal)
			if opts.noEnforce {
				enforce := false
				in.EnforceAccessibility = &enforce
			}
			c.applyComposeDefaults(in)
			return c.runCompose(cmd.Context(), cmd.OutOrStdout(), &opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&in.Headline, "headline", "", "headline text (required)")
	f.StringVar(&in.Subheadline, "subheadline", "", "subheadline text")
	f.StringVar(&in.Description, "description", "", "body copy")
	f.StringVar(&in.CTAText, "cta", "", "call-to-action label (default from config)")
	f.StringVar(&in.ProductName, "product", "", "product name (required)")
	f.StringVar(&in.BrandName, "brand", "", "brand name")
	f.StringVar(&in.ProductImage, "product-image", "", "product image URL")
	f.StringVar(&in.BackgroundImage, "background-image", "", "background image URL")
	f.StringSliceVar(&in.Benefits, "benefit", nil, "product benefit (repeatable)")
	f.StringVar(&in.SocialProof, "social-proof", "", "social proof line")
	f.StringVar(&in.UrgencyText, "urgency", "", "urgency banner text")
	f.StringVar(&in.BadgeText, "badge", "", "badge text")
	f.StringVar(&in.Tone, "tone", "", "tone: modern, bold, playful, professional, luxury, elegant")
	f.StringVar(&in.ProductType, "product-type", "", "product type, e.g. luxury or ecommerce")
	f.StringVar(&goal, "goal", "", "campaign goal: awareness, consideration, conversion")
	f.BoolVar(&in.HasOffer, "offer", false, "the ad carries an offer")
	f.StringVar(&in.Colors.Primary, "primary", "", "primary brand color (#RRGGBB)")
	f.StringVar(&in.Colors.Secondary, "secondary", "", "secondary brand color")
	f.StringVar(&in.Colors.Accent, "accent", "", "accent color")
	f.StringVar(&in.Colors.Text, "text-color", "", "text color")
	f.StringVar(&in.Colors.Background, "background", "", "background color")
	f.StringVar(&format, "format", "", "format: square, story, landscape, portrait (default from config)")
	f.StringVar(&pattern, "pattern", "", "archetype: minimal, bold, ecommerce, luxury, urgency (default: auto)")
	f.BoolVar(&opts.noEnforce, "no-enforce", false, "report contrast failures instead of fixing them")
	f.Float64Var(&in.TargetBalance, "target-balance", 0, "balance score below which an issue is raised")
	f.StringVar(&opts.formats, "formats", "", "compose several formats (comma-separated, or all)")
	f.BoolVar(&opts.variants, "variants", false, "compose once per archetype, best balance first")
	f.StringVarP(&opts.output, "output", "o", "", "document file (single) or base path (several)")
	f.BoolVar(&opts.json, "json", false, "print the full output as JSON")
	f.BoolVar(&opts.save, "save", false, "save documents to the document store")
	f.BoolVar(&opts.noCache, "no-cache", false, "disable the layout cache")

	return cmd
}

// parseFormats parses the --formats flag. Empty means none, "all" means
// every format.
func parseFormats(s string) ([]grid.Format, error) {
	s = strings.TrimSpace(s)
	switch s {
	case "":
		return nil, nil
	case "all":
		return grid.Formats, nil
	}
	var out []grid.Format
	for _, part := range strings.Split(s, ",") {
		f, err := grid.ParseFormat(part)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

func (c *CLI) runCompose(ctx context.Context, w io.Writer, opts *composeOpts) error {
	formats, err := parseFormats(opts.formats)
	if err != nil {
		return err
	}
	prog := newProgress(c.Logger)

	var outs []*compose.Output
	var cached bool
	switch {
	case opts.variants:
		outs, err = c.newEngine().ComposeVariants(ctx, opts.input)
	case len(formats) > 0:
		outs, err = c.newEngine().ComposeFormats(ctx, opts.input, formats)
	default:
		runner, rerr := c.newRunner(ctx, opts.noCache)
		if rerr != nil {
			return rerr
		}
		defer runner.Close()
		var out *compose.Output
		out, cached, err = runner.Compose(ctx, c.newEngine(), opts.input)
		outs = []*compose.Output{out}
	}
	if err != nil {
		return err
	}
	prog.done("composed", "documents", len(outs), "cached", cached)

	if opts.json {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if len(outs) == 1 {
			return enc.Encode(outs[0])
		}
		return enc.Encode(outs)
	}

	for _, out := range outs {
		printQuality(out, cached)
	}
	if err := writeDocuments(outs, opts.output, opts.variants); err != nil {
		return err
	}
	if opts.save {
		if err := c.saveDocuments(ctx, outs); err != nil {
			return err
		}
	}
	if opts.output == "" && !opts.save {
		printNextStep("Write the document", "adlayout compose ... -o ad.json")
	}
	return nil
}

// writeDocuments writes one JSON file per output. A single output goes to
// base as given; several outputs get a -<format> or -<pattern> suffix.
func writeDocuments(outs []*compose.Output, base string, byPattern bool) error {
	if base == "" {
		return nil
	}
	if len(outs) == 1 {
		if err := document.ExportJSON(outs[0].Document, base); err != nil {
			return err
		}
		printFile(base)
		return nil
	}
	ext := filepath.Ext(base)
	if ext == "" {
		ext = ".json"
	}
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	for _, out := range outs {
		suffix := string(out.Metadata.Format)
		if byPattern {
			suffix = string(out.Metadata.Pattern)
		}
		path := fmt.Sprintf("%s-%s%s", stem, suffix, ext)
		if err := document.ExportJSON(out.Document, path); err != nil {
			return err
		}
		printFile(path)
	}
	return nil
}

func (c *CLI) saveDocuments(ctx context.Context, outs []*compose.Output) error {
	st, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close(ctx)
	for _, out := range outs {
		if err := st.Save(ctx, out.Document); err != nil {
			return err
		}
		printSuccess("Saved %s", StyleNumber.Render(out.Document.ID))
	}
	return nil
}

// readFile reads a local file for flags that take a path.
func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
	}
	return data, nil
}
