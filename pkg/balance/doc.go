// Package balance scores the visual balance of a layout.
//
// [Score] looks at the visible foreground layers of a document and grades
// five aspects on a 0-100 scale:
//
//   - Horizontal and vertical balance: how evenly visual weight is spread
//     around the canvas center. Weight is layer area scaled by a per-kind
//     factor, opacity and (for text) font weight.
//   - Overlap: 100 minus a fixed penalty per overlapping pair. Background
//     layers and decorative accents that intentionally sit behind content are
//     not counted.
//   - Spacing: mean gap from each layer to its nearest neighbor against an
//     ideal gap.
//   - Whitespace: uncovered canvas ratio against an ideal band.
//
// The overall score is the weighted sum of the five, with weights taken from
// [Config]. Every sub-score below Config.IssueBelow adds an issue naming the
// violation and a matching suggestion.
package balance
