// Package pkg provides the core libraries for adlayout, a display-ad layout
// engine.
//
// # Overview
//
// adlayout turns ad content (headline, product, call to action) and brand
// colors into layered documents laid out on a responsive 12-column grid. It
// keeps every text layer readable against its background, scores visual
// balance, and generates ranked design variations that a renderer or editor
// can draw. The pkg directory is organized into four areas:
//
//  1. Geometry and color: [grid], [palette], [typography], [balance]
//  2. Composition: [templates], [document], [compose]
//  3. Generation: [vision], [adaptive], [variation], [pipeline]
//  4. Infrastructure: [cache], [store], [config], [errors], [observability]
//
// # Architecture
//
// The data flow of one orchestration:
//
//	product image + campaign context
//	         ↓
//	    [vision] (product box, free space, colors; heuristic on failure)
//	         ↓
//	    [adaptive] (product and text zones that fit the image)
//	         ↓
//	    [templates] (archetypes ranked for the context)
//	         ↓
//	    [variation] (mutated, scored, deduplicated designs)
//	         ↓
//	    [pipeline] (ranking, caching, export to [document])
//
// Single compositions skip generation: [compose] binds content into an
// archetype, fits the text, enforces contrast and reports quality.
//
// # Quick Start
//
//	in := compose.Input{
//	    Headline:    "Summer Sale",
//	    CTAText:     "Shop Now",
//	    ProductName: "Sneaker X",
//	    HasOffer:    true,
//	    Colors:      compose.Colors{Primary: "#FF6B35"},
//	}
//	out, err := compose.NewEngine(nil, nil).Compose(ctx, in)
//	if err != nil {
//	    return err
//	}
//	return document.ExportJSON(out.Document, "ad.json")
//
// # Entry Points
//
// The CLI (cmd/adlayout) and the HTTP API (internal/server) both drive
// [pipeline.Runner], so caching and telemetry behave the same everywhere.
package pkg
