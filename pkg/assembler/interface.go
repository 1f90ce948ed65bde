package assembler

import (
	"context"
	"net/http"

	"github.com/thebartekbanach/imsquash/pkg/encoder"
	"github.com/thebartekbanach/imsquash/pkg/fetcher"
)

// Decision is the verdict of the external compression-worthiness heuristic.
type Decision int

const (
	// DecisionCompress routes the payload through the image re-encoding path.
	DecisionCompress Decision = iota

	// DecisionBypass passes the payload through unmodified.
	DecisionBypass
)

// Decider is the external heuristic deciding what happens to a decoded
// payload. The heuristic itself is out of scope for this module; only the
// contract lives here.
type Decider interface {
	// Decide picks the image re-encoding path or the pass-through path.
	Decide(originType string, originSize int) Decision

	// TransportCompress reports whether the outbound body is worth
	// transport-compressing. Independent from the Decide verdict.
	TransportCompress(originType string, originSize int) bool
}

// Payload is the decoded origin payload together with everything a sender
// needs to produce the client response.
type Payload struct {
	Body           []byte
	AcceptEncoding string
	Params         encoder.Params

	// Provenance of the origin payload, recorded for downstream use.
	OriginType string
	OriginSize int

	// TransportCompress carries the Decider verdict to the sender.
	TransportCompress bool
}

// Sent describes what a sender wrote: the body before transport encoding
// was applied, so callers can cache it independently of what this
// particular client accepted.
type Sent struct {
	Body        []byte
	ContentType string
}

// Sender terminates the response on one of the two dispatch paths.
type Sender interface {
	Send(ctx context.Context, w http.ResponseWriter, payload Payload) (Sent, error)
}

// Assembler applies the response header policy and routes the decoded
// payload to the compress-or-bypass sender picked by the Decider.
type Assembler interface {
	Assemble(ctx context.Context, w http.ResponseWriter, origin fetcher.OriginResponse, payload Payload) (Sent, error)
}
