package transportcodec

import (
	"bytes"
	"testing"

	"github.com/franela/goblin"
)

func TestRegistry(t *testing.T) {
	g := goblin.Goblin(t)

	testPayload := bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog "), 32)

	g.Describe("Registry", func() {
		g.Describe("Decode", func() {
			g.It("Should roundtrip every supported transport scheme", func() {
				registry := NewRegistry()

				for _, codec := range registry.codecs {
					encoded, err := codec.Encode(testPayload)
					g.Assert(err).IsNil()

					result := registry.Decode(encoded, codec.Encoding())
					g.Assert(result.Encoding).Equal(codec.Encoding())
					g.Assert(result.Data).Equal(testPayload)
				}
			})

			g.It("Should return input unchanged for unknown encoding", func() {
				registry := NewRegistry()

				result := registry.Decode(testPayload, "unknown-scheme")
				g.Assert(result.Data).Equal(testPayload)
				g.Assert(result.Encoding).Equal(EncodingIdentity)
			})

			g.It("Should return input unchanged for empty encoding", func() {
				registry := NewRegistry()

				result := registry.Decode(testPayload, "")
				g.Assert(result.Data).Equal(testPayload)
				g.Assert(result.Encoding).Equal(EncodingIdentity)
			})

			g.It("Should degrade to identity when payload is corrupt", func() {
				registry := NewRegistry()
				corrupt := []byte{0xde, 0xad, 0xbe, 0xef}

				result := registry.Decode(corrupt, "gzip")
				g.Assert(result.Data).Equal(corrupt)
				g.Assert(result.Encoding).Equal(EncodingIdentity)
			})

			g.It("Should resolve legacy encoding aliases", func() {
				registry := NewRegistry()

				encoded, err := gzipCodec{}.Encode(testPayload)
				g.Assert(err).IsNil()

				result := registry.Decode(encoded, "x-gzip")
				g.Assert(result.Encoding).Equal("gzip")
				g.Assert(result.Data).Equal(testPayload)
			})
		})

		g.Describe("Encode", func() {
			g.It("Should prefer brotli over gzip and deflate", func() {
				registry := NewRegistry()

				result := registry.Encode(testPayload, "deflate, gzip, br")
				g.Assert(result.Encoding).Equal("br")

				decoded, err := brotliCodec{}.Decode(result.Data)
				g.Assert(err).IsNil()
				g.Assert(decoded).Equal(testPayload)
			})

			g.It("Should fall back to gzip when brotli is not accepted", func() {
				registry := NewRegistry()

				result := registry.Encode(testPayload, "gzip, deflate")
				g.Assert(result.Encoding).Equal("gzip")
			})

			g.It("Should pick deflate when it is the only accepted scheme", func() {
				registry := NewRegistry()

				result := registry.Encode(testPayload, "deflate")
				g.Assert(result.Encoding).Equal("deflate")
			})

			g.It("Should return identity when no supported scheme is accepted", func() {
				registry := NewRegistry()

				result := registry.Encode(testPayload, "compress, snappy")
				g.Assert(result.Encoding).Equal(EncodingIdentity)
				g.Assert(result.Data).Equal(testPayload)
			})

			g.It("Should return identity for empty accept header", func() {
				registry := NewRegistry()

				result := registry.Encode(testPayload, "")
				g.Assert(result.Encoding).Equal(EncodingIdentity)
				g.Assert(result.Data).Equal(testPayload)
			})

			g.It("Should skip schemes rejected with zero quality", func() {
				registry := NewRegistry()

				result := registry.Encode(testPayload, "br;q=0, gzip")
				g.Assert(result.Encoding).Equal("gzip")
			})
		})
	})
}
