package compose

import (
	"context"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/adlayout/pkg/grid"
	"github.com/matzehuels/adlayout/pkg/templates"
)

// ComposeFormats composes in once per format, concurrently. Outputs are in
// the order of formats. A nil or empty formats list means every format.
func (e *Engine) ComposeFormats(ctx context.Context, in Input, formats []grid.Format) ([]*Output, error) {
	if len(formats) == 0 {
		formats = grid.Formats
	}
	out := make([]*Output, len(formats))
	g, ctx := errgroup.WithContext(ctx)
	for i, f := range formats {
		g.Go(func() error {
			v := in
			v.Format = f
			res, err := e.Compose(ctx, v)
			if err != nil {
				return err
			}
			out[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// ComposeVariants composes in with every archetype for A/B testing. The
// outputs are ordered by balance score, best first, keeping catalog order
// for ties.
func (e *Engine) ComposeVariants(ctx context.Context, in Input) ([]*Output, error) {
	out := make([]*Output, len(templates.Patterns))
	g, ctx := errgroup.WithContext(ctx)
	for i, p := range templates.Patterns {
		g.Go(func() error {
			v := in
			v.Pattern = p
			res, err := e.Compose(ctx, v)
			if err != nil {
				return err
			}
			out[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	slices.SortStableFunc(out, func(a, b *Output) int {
		switch {
		case a.Quality.BalanceScore > b.Quality.BalanceScore:
			return -1
		case a.Quality.BalanceScore < b.Quality.BalanceScore:
			return 1
		}
		return 0
	})
	return out, nil
}
