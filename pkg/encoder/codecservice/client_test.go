package codecservice

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/franela/goblin"

	"github.com/thebartekbanach/imsquash/pkg/encoder"
)

func testRequestFunc(statusCode int, responseBody []byte, responseContentType string, callError error, requestAssert func(req *http.Request)) httpRequestFunc {
	return func(req *http.Request) (*http.Response, error) {
		requestAssert(req)

		if callError != nil {
			return nil, callError
		}

		header := http.Header{}
		if responseContentType != "" {
			header.Set("Content-Type", responseContentType)
		}

		return &http.Response{
			StatusCode: statusCode,
			Header:     header,
			Body:       io.NopCloser(bytes.NewReader(responseBody)),
		}, nil
	}
}

func noAssertions(req *http.Request) {}

func TestCodecServiceClient(t *testing.T) {
	g := goblin.Goblin(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	g.Describe("Client", func() {
		g.It("Should build encode request with quality, grayscale and format params", func() {
			client := Client{
				config: Config{CodecServiceURL: "http://localhost:3000"},
				makeRequest: testRequestFunc(200, []byte{0x1}, "image/webp", nil, func(req *http.Request) {
					g.Assert(req.Method).Equal(http.MethodPost)
					g.Assert(req.URL.Path).Equal("/encode")
					g.Assert(req.URL.Query().Get("quality")).Equal("40")
					g.Assert(req.URL.Query().Get("grayscale")).Equal("true")
					g.Assert(req.URL.Query().Get("format")).Equal("webp")
					g.Assert(req.Header.Get("Content-Type")).Equal("image/jpeg")
				}),
			}

			_, err := client.Encode(ctx, []byte{0xff, 0xd8}, "image/jpeg", encoder.Params{
				Quality:   40,
				Grayscale: true,
				Format:    "webp",
			})

			g.Assert(err).IsNil()
		})

		g.It("Should return encoded body and content type from the service", func() {
			encodedData := []byte{0x52, 0x49, 0x46, 0x46}
			client := Client{
				config:      Config{CodecServiceURL: "http://localhost:3000"},
				makeRequest: testRequestFunc(200, encodedData, "image/webp", nil, noAssertions),
			}

			result, err := client.Encode(ctx, []byte{0xff, 0xd8}, "image/jpeg", encoder.Params{Quality: 80})

			g.Assert(err).IsNil()
			g.Assert(result.Body).Equal(encodedData)
			g.Assert(result.ContentType).Equal("image/webp")
		})

		g.It("Should return error if service responds with non-200 status", func() {
			client := Client{
				config:      Config{CodecServiceURL: "http://localhost:3000"},
				makeRequest: testRequestFunc(500, nil, "text/plain", nil, noAssertions),
			}

			_, err := client.Encode(ctx, []byte{0xff, 0xd8}, "image/jpeg", encoder.Params{})

			g.Assert(errors.Is(err, ErrResponseStatusNotOK)).IsTrue()
		})

		g.It("Should return error if service response has no content type", func() {
			client := Client{
				config:      Config{CodecServiceURL: "http://localhost:3000"},
				makeRequest: testRequestFunc(200, []byte{0x1}, "", nil, noAssertions),
			}

			_, err := client.Encode(ctx, []byte{0xff, 0xd8}, "image/jpeg", encoder.Params{})

			g.Assert(errors.Is(err, ErrUnknownContentType)).IsTrue()
		})

		g.It("Should propagate transport errors from the service call", func() {
			callError := errors.New("connection refused")
			client := Client{
				config:      Config{CodecServiceURL: "http://localhost:3000"},
				makeRequest: testRequestFunc(0, nil, "", callError, noAssertions),
			}

			_, err := client.Encode(ctx, []byte{0xff, 0xd8}, "image/jpeg", encoder.Params{})

			g.Assert(errors.Is(err, callError)).IsTrue()
		})
	})
}
