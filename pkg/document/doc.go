// Package document defines the layout document: a canvas plus an ordered
// stack of typed layers.
//
// # Layers
//
// A [Layer] is a closed tagged union. Its [Kind] selects exactly one payload
// pointer (Background, Image, Text, Shape or CTA); all other payloads are
// nil. [Layer.Validate] enforces this, and consumers switch on Kind:
//
//	switch l.Kind {
//	case document.KindText:
//	    size := l.Text.FontSize
//	case document.KindCTA:
//	    label := l.CTA.Text
//	...
//	}
//
// Common attributes (geometry, opacity, visibility, z-order) live on the
// layer itself. A [Role] names what the layer is for (headline, product,
// cta, ...) and is how composition steps find the layers they bind content to.
//
// # Documents
//
// [Document] carries canvas size, background color, safe area and layers in
// paint order. Geometry outside the canvas is not rejected; [Document.Check]
// reports it together with other soft violations.
//
// # Serialization
//
// [Marshal] and [WriteJSON] produce indented JSON. [Unmarshal] and [ReadJSON]
// validate the input against an embedded JSON Schema before decoding, then
// validate every layer. A round trip preserves layer order, roles and
// geometry exactly. Structs also carry bson tags for the Mongo store.
package document
