package main

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/thebartekbanach/imsquash/pkg/assembler"
	"github.com/thebartekbanach/imsquash/pkg/encoder"
	"github.com/thebartekbanach/imsquash/pkg/proxy"
	"github.com/thebartekbanach/imsquash/pkg/transportcodec"
)

// sizeDecider routes raster images through the re-encoding path and
// everything else through the pass-through path. Transport compression is
// only worth it for payloads that are not already compressed formats.
type sizeDecider struct{}

var _ assembler.Decider = sizeDecider{}

func (sizeDecider) Decide(originType string, originSize int) assembler.Decision {
	if strings.HasPrefix(originType, "image/") && originType != "image/svg+xml" && originSize > 0 {
		return assembler.DecisionCompress
	}

	return assembler.DecisionBypass
}

func (sizeDecider) TransportCompress(originType string, originSize int) bool {
	return strings.HasPrefix(originType, "text/") || originType == "image/svg+xml"
}

type compressSender struct {
	encoder encoder.ImageEncoder
	codecs  *transportcodec.Registry
}

var _ assembler.Sender = (*compressSender)(nil)

func (s *compressSender) Send(ctx context.Context, w http.ResponseWriter, payload assembler.Payload) (assembler.Sent, error) {
	encoded, err := s.encoder.Encode(ctx, payload.Body, payload.OriginType, payload.Params)
	if err != nil {
		log.Warn().Err(err).Msg("image re-encoding failed, passing origin payload through")
		encoded = encoder.EncodedImage{Body: payload.Body, ContentType: payload.OriginType}
	}

	// re-encoding an already well-compressed image can grow it
	if len(encoded.Body) > len(payload.Body) {
		encoded = encoder.EncodedImage{Body: payload.Body, ContentType: payload.OriginType}
	}

	return writeBody(w, payload, s.codecs, encoded.Body, encoded.ContentType)
}

type bypassSender struct {
	codecs *transportcodec.Registry
}

var _ assembler.Sender = (*bypassSender)(nil)

func (s *bypassSender) Send(ctx context.Context, w http.ResponseWriter, payload assembler.Payload) (assembler.Sent, error) {
	contentType := payload.OriginType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return writeBody(w, payload, s.codecs, payload.Body, contentType)
}

func writeBody(
	w http.ResponseWriter,
	payload assembler.Payload,
	codecs *transportcodec.Registry,
	body []byte,
	contentType string,
) (assembler.Sent, error) {
	outgoing := transportcodec.Result{Data: body, Encoding: transportcodec.EncodingIdentity}
	if payload.TransportCompress {
		outgoing = codecs.Encode(body, payload.AcceptEncoding)
	}

	if outgoing.Encoding != transportcodec.EncodingIdentity {
		w.Header().Set("Content-Encoding", outgoing.Encoding)
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(outgoing.Data)))
	w.Header().Set("X-Original-Size", strconv.Itoa(payload.OriginSize))
	w.Header().Set("X-Bytes-Saved", strconv.Itoa(payload.OriginSize-len(body)))

	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(outgoing.Data); err != nil {
		return assembler.Sent{}, err
	}

	return assembler.Sent{Body: body, ContentType: contentType}, nil
}

// redirectFallback sends the client to fetch the origin directly instead of
// answering with a proxy error.
type redirectFallback struct{}

var _ proxy.RedirectFallback = redirectFallback{}

func (redirectFallback) Redirect(w http.ResponseWriter, targetURL string) {
	w.Header().Set("Location", targetURL)
	w.WriteHeader(http.StatusFound)
}
