package codecservice

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/thebartekbanach/imsquash/pkg/encoder"
)

type httpRequestFunc func(req *http.Request) (*http.Response, error)

type Config struct {
	CodecServiceURL string
}

// Client delegates image re-encoding to the external image-codec service.
type Client struct {
	config      Config
	makeRequest httpRequestFunc
}

var _ encoder.ImageEncoder = (*Client)(nil)

func NewClient(config Config) Client {
	return Client{config, http.DefaultClient.Do}
}

func (c *Client) Encode(ctx context.Context, image []byte, contentType string, params encoder.Params) (encoder.EncodedImage, error) {
	req, err := c.buildRequest(image, contentType, params)
	if err != nil {
		return encoder.EncodedImage{}, err
	}

	response, err := c.makeRequest(req.WithContext(ctx))
	if err != nil {
		return encoder.EncodedImage{}, err
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return encoder.EncodedImage{}, ErrResponseStatusNotOK
	}

	responseContentType := response.Header.Get("Content-Type")
	if responseContentType == "" {
		return encoder.EncodedImage{}, ErrUnknownContentType
	}

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return encoder.EncodedImage{}, err
	}

	return encoder.EncodedImage{
		Body:        body,
		ContentType: responseContentType,
	}, nil
}

func (c *Client) buildRequest(image []byte, contentType string, params encoder.Params) (*http.Request, error) {
	target, err := url.Parse(c.config.CodecServiceURL)
	if err != nil {
		return nil, err
	}
	target.Path = "/encode"

	query := target.Query()
	query.Set("quality", strconv.Itoa(params.Quality))
	if params.Grayscale {
		query.Set("grayscale", "true")
	}
	if params.Format != "" {
		query.Set("format", params.Format)
	}
	target.RawQuery = query.Encode()

	req, err := http.NewRequest(http.MethodPost, target.String(), bytes.NewReader(image))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", contentType)
	return req, nil
}

var (
	ErrResponseStatusNotOK = errors.New("codec service response status not OK")
	ErrUnknownContentType  = errors.New("unknown codec service response content type")
)
