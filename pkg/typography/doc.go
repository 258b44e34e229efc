// Package typography fits ad copy into grid boxes.
//
// Text is measured through the [Measurer] interface. [FaceMeasurer] uses
// real glyph advances from the embedded Go fonts, while [ApproxMeasurer]
// assumes an average glyph width of 0.6 em and needs no font data. Both wrap
// greedily on word boundaries.
//
// [FindOptimalSize] binary-searches integer font sizes for the largest one
// whose wrapped box fits the constraints:
//
//	fit := typography.FindOptimalSize(m, "Summer Sale", typography.Constraints{
//	    MaxWidth:  960,
//	    MaxHeight: 240,
//	    Weight:    800,
//	})
//	if fit.Overflow {
//	    // even MinSize does not fit; truncation is up to the caller
//	}
//
// Font pairings per mood, the recommended size scale and letter spacing
// rules live in pairing.go.
package typography
