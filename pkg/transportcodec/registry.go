package transportcodec

import (
	"strings"

	"github.com/rs/zerolog/log"
)

// Registry dispatches transport encodings to an enumerated, compile-time
// list of codec implementations. Adding a scheme means adding a Codec type
// and listing it here, so a typo in an encoding tag cannot silently register
// a dead codec.
type Registry struct {
	codecs []Codec
}

// encodePreference is the outbound negotiation order: the first scheme the
// client accepts wins.
var encodePreference = []string{"br", "gzip", "deflate"}

// encodingAliases maps legacy or alternative Content-Encoding spellings to
// the canonical tokens used by the codecs.
var encodingAliases = map[string]string{
	"x-gzip":    "gzip",
	"brotli":    "br",
	"x-zstd":    "zstd",
	"lzma":      "xz",
	"x-deflate": "deflate",
}

func NewRegistry() *Registry {
	return &Registry{
		codecs: []Codec{
			brotliCodec{},
			gzipCodec{},
			deflateCodec{},
			zstdCodec{},
			xzCodec{},
		},
	}
}

// Decode inflates data according to the given Content-Encoding tag. Unknown
// or missing encodings return the input unchanged with EncodingIdentity, and
// a corrupt payload degrades the same way instead of failing the request.
func (r *Registry) Decode(data []byte, encoding string) Result {
	tag := canonicalEncoding(encoding)
	if tag == "" || tag == EncodingIdentity {
		return Result{Data: data, Encoding: EncodingIdentity}
	}

	codec := r.lookup(tag)
	if codec == nil {
		log.Debug().Str("encoding", encoding).Msg("unsupported transport encoding, passing payload through")
		return Result{Data: data, Encoding: EncodingIdentity}
	}

	decoded, err := codec.Decode(data)
	if err != nil {
		log.Warn().Err(err).Str("encoding", tag).Msg("transport decode failed, passing payload through")
		return Result{Data: data, Encoding: EncodingIdentity}
	}

	return Result{Data: decoded, Encoding: tag}
}

// Encode compresses data with the first scheme of the preference order that
// the client accepts. When no supported scheme matches (or compression
// fails), the payload is returned unchanged with EncodingIdentity.
func (r *Registry) Encode(data []byte, acceptEncoding string) Result {
	accepted := acceptedEncodings(acceptEncoding)

	for _, name := range encodePreference {
		if !accepted[name] {
			continue
		}

		codec := r.lookup(name)
		if codec == nil {
			continue
		}

		encoded, err := codec.Encode(data)
		if err != nil {
			log.Warn().Err(err).Str("encoding", name).Msg("transport encode failed, trying next accepted scheme")
			continue
		}

		return Result{Data: encoded, Encoding: name}
	}

	return Result{Data: data, Encoding: EncodingIdentity}
}

func (r *Registry) lookup(tag string) Codec {
	for _, codec := range r.codecs {
		if codec.Encoding() == tag {
			return codec
		}
	}

	return nil
}

func canonicalEncoding(encoding string) string {
	tag := strings.ToLower(strings.TrimSpace(encoding))
	if canonical, ok := encodingAliases[tag]; ok {
		return canonical
	}

	return tag
}

// acceptedEncodings parses an Accept-Encoding header value into the set of
// accepted canonical tokens. Quality values are stripped; a scheme listed
// with q=0 is treated as not accepted.
func acceptedEncodings(header string) map[string]bool {
	accepted := make(map[string]bool)

	for _, part := range strings.Split(header, ",") {
		token := part
		rejected := false

		if semicolon := strings.IndexByte(part, ';'); semicolon != -1 {
			token = part[:semicolon]
			params := strings.ToLower(strings.TrimSpace(part[semicolon+1:]))
			if params == "q=0" || strings.HasPrefix(params, "q=0.000") || params == "q=0.0" || params == "q=0.00" {
				rejected = true
			}
		}

		tag := canonicalEncoding(token)
		if tag == "" || rejected {
			continue
		}

		accepted[tag] = true
	}

	return accepted
}
