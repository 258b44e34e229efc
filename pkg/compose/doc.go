// Package compose turns ad content into a positioned, accessible and scored
// layout document.
//
// [Engine.Compose] runs these steps in order:
//
//  1. Resolve the grid configuration for the requested format.
//  2. Pick a template: the explicit pattern, or [templates.Select].
//  3. Build the template's placeholder layers.
//  4. Bind content by role. Text is fitted with the typography measurer,
//     CTA colors come from [palette.SafeCTAColor] and the product image
//     reference is attached.
//  5. Enforce accessibility: text failing WCAG AA is recolored and every
//     correction is recorded in the quality issues.
//  6. Score visual balance.
//  7. Assemble the document.
//
// Invalid input (missing copy, unknown format or pattern) is returned as an
// error. Sub-step failures such as a broken measurer or an unparseable brand
// color are recorded in Quality.Issues and the best layout is still returned.
// If the template itself cannot be built, [Fallback] produces a minimal,
// default-colored, unscored layout flagged with Quality.Degraded.
package compose
