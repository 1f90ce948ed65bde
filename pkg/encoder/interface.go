package encoder

import "context"

// Params is the parameter bag produced by the external parameter-parsing
// collaborator. This module never parses raw query strings itself.
type Params struct {
	Quality   int
	Grayscale bool
	Format    string
}

// EncodedImage is the outcome of one re-encoding round trip.
type EncodedImage struct {
	Body        []byte
	ContentType string
}

// ImageEncoder re-encodes an image payload to save bandwidth. Re-encoding
// policy and parameter tuning live in an external image-codec service; this
// is only the contract the proxy talks to.
type ImageEncoder interface {
	Encode(ctx context.Context, image []byte, contentType string, params Params) (EncodedImage, error)
}
