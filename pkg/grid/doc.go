// Package grid implements the column/row grid that every ad layout is
// placed on.
//
// # Overview
//
// Each output format (square, story, landscape, portrait) has a fixed
// [Config]: canvas size, twelve columns, a gutter, outer margins and a safe
// zone. The safe zone is the inset region that social platforms do not cover
// with their own UI (story formats reserve large top and bottom bands for
// the profile header and the swipe-up area).
//
// # Placement
//
// [Place] converts a logical column/row span into pixels:
//
//	x      = marginX + (col-1)·(columnWidth+gutter)
//	width  = colSpan·columnWidth + (colSpan-1)·gutter
//	y      = marginY + (row-1)·RowHeight
//	height = rowSpan·RowHeight
//
// Spans that do not fit the configured columns or rows are rejected with an
// INVALID_SPAN error. They are never clamped.
//
// # Presets
//
// [Headline], [ProductHero], [CTABottom] and friends wrap [Place] and
// [Centered] for the positions most templates share.
package grid
