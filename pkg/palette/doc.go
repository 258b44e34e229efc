// Package palette validates and derives colors for ad layouts.
//
// It covers two concerns:
//
//   - Accessibility: WCAG relative luminance, contrast ratios, AA/AAA
//     classification, automatic contrast correction and safe CTA colors.
//   - Harmony: hue-based schemes (complementary, analogous, triadic, ...)
//     and a heuristic harmony score for generated palettes.
//
// Colors cross the API as "#RRGGBB" strings. Three-digit shorthand and a
// missing '#' are accepted on input; output is always upper-case "#RRGGBB".
// Color space math is delegated to go-colorful.
package palette
