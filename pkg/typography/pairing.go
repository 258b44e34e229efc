package typography

import (
	"math"
	"strings"

	"github.com/matzehuels/adlayout/pkg/grid"
)

// Mood selects a font pairing.
type Mood string

// Supported moods.
const (
	MoodElegant      Mood = "elegant"
	MoodBold         Mood = "bold"
	MoodModern       Mood = "modern"
	MoodPlayful      Mood = "playful"
	MoodProfessional Mood = "professional"
)

// Moods lists the supported moods in display order.
var Moods = []Mood{MoodModern, MoodElegant, MoodBold, MoodPlayful, MoodProfessional}

// FontSpec is a family and CSS weight.
type FontSpec struct {
	Family string `json:"family" bson:"family"`
	Weight int    `json:"weight" bson:"weight"`
}

// Pairing is the headline/body/CTA font triple for a mood.
type Pairing struct {
	Headline FontSpec `json:"headline"`
	Body     FontSpec `json:"body"`
	CTA      FontSpec `json:"cta"`
}

var pairings = map[Mood]Pairing{
	MoodModern: {
		Headline: FontSpec{"Inter", 800},
		Body:     FontSpec{"Inter", 400},
		CTA:      FontSpec{"Inter", 700},
	},
	MoodElegant: {
		Headline: FontSpec{"Playfair Display", 700},
		Body:     FontSpec{"Inter", 400},
		CTA:      FontSpec{"Inter", 600},
	},
	MoodBold: {
		Headline: FontSpec{"Montserrat", 900},
		Body:     FontSpec{"Montserrat", 500},
		CTA:      FontSpec{"Montserrat", 700},
	},
	MoodPlayful: {
		Headline: FontSpec{"Poppins", 800},
		Body:     FontSpec{"Poppins", 400},
		CTA:      FontSpec{"Poppins", 700},
	},
	MoodProfessional: {
		Headline: FontSpec{"Inter", 700},
		Body:     FontSpec{"Inter", 400},
		CTA:      FontSpec{"Inter", 600},
	},
}

// PairingFor returns the pairing for mood. Unknown moods get the modern pairing.
func PairingFor(mood Mood) Pairing {
	if p, ok := pairings[Mood(strings.ToLower(string(mood)))]; ok {
		return p
	}
	return pairings[MoodModern]
}

// LetterSpacing returns the tracking in px for a headline of the given size
// and weight. Larger and bolder text never gets looser spacing.
func LetterSpacing(size float64, weight int) float64 {
	switch {
	case size >= 60 && weight >= 700:
		return -1
	case size >= 40:
		return -0.5
	default:
		return 0
	}
}

// Element is a slot in the type scale.
type Element string

// Type scale elements.
const (
	ElementH1      Element = "h1"
	ElementH2      Element = "h2"
	ElementH3      Element = "h3"
	ElementBody    Element = "body"
	ElementCaption Element = "caption"
	ElementCTA     Element = "cta"
)

var typeScale = map[Element]float64{
	ElementH1:      72,
	ElementH2:      56,
	ElementH3:      40,
	ElementBody:    24,
	ElementCaption: 18,
	ElementCTA:     28,
}

var formatScale = map[grid.Format]float64{
	grid.FormatSquare:    1.0,
	grid.FormatStory:     1.1,
	grid.FormatLandscape: 0.9,
	grid.FormatPortrait:  1.05,
}

// RecommendedSize returns the scale size for element adjusted for format.
// Unknown elements use the body size; unknown formats are not scaled.
func RecommendedSize(element Element, format grid.Format) float64 {
	base, ok := typeScale[element]
	if !ok {
		base = typeScale[ElementBody]
	}
	mult, ok := formatScale[format]
	if !ok {
		mult = 1
	}
	return math.Round(base * mult)
}

// MinReadableSize is the smallest readable size for regular weights.
const MinReadableSize = 20.0

// IsReadable reports whether text at size and weight is legible on a feed
// thumbnail. Bold text may be 10% smaller.
func IsReadable(size float64, weight int) bool {
	threshold := MinReadableSize
	if weight >= 700 {
		threshold *= 0.9
	}
	return size >= threshold
}
