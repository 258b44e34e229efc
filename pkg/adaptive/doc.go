// Package adaptive places text around a product from its image analysis.
//
// Text goes on the side opposite the product: a product on the left puts
// the headline in the right free space and vice versa. A centered product
// pushes text to the top or bottom, whichever free space suits text
// better. The call-to-action always prefers the bottom free space.
//
// The balance score starts from the analysis' composition balance and is
// adjusted by exactly [SideBonus]: added when text and product sit on
// opposite sides, subtracted when they share a side.
package adaptive
