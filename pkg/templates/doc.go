// Package templates is the library of ad layout archetypes.
//
// Each [Definition] builds placeholder layers for a grid configuration. The
// builders are pure: the same configuration always yields the same layers,
// with no randomness and no I/O. The archetypes differ structurally:
//
//   - minimal: centered headline band, hero product, bottom CTA, lots of air
//   - bold: rotated diagonal accent, left-aligned headline, offset product
//   - ecommerce: dense benefit list and social proof under the product
//   - luxury: serif headline, generous whitespace, dark palette
//   - urgency: top-right badge, scarcity line, oversized CTA
//
// Layers are authored on the 8-row square grid and rescaled to taller or
// shorter formats by [grid.PlaceReference].
//
// [Select] picks an archetype from campaign context with a fixed decision
// table; [Rank] orders all archetypes by suitability for template search.
package templates
