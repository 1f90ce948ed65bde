package transportcodec

// Codec implements a single transport-compression scheme. Transport
// compression is HTTP body compression (gzip, brotli and friends), entirely
// independent from image-format encoding.
type Codec interface {
	// Encoding returns the canonical Content-Encoding token of the scheme.
	Encoding() string
	Decode(data []byte) ([]byte, error)
	Encode(data []byte) ([]byte, error)
}

// Result carries a payload together with the encoding that was applied to
// it, or EncodingIdentity when the payload passed through unchanged.
type Result struct {
	Data     []byte
	Encoding string
}

// EncodingIdentity marks a payload that is not transport-compressed.
const EncodingIdentity = "identity"
