package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	inErrors "github.com/shopindream/storefront/internal/errors"
	inHttp "github.com/shopindream/storefront/internal/http"
	"github.com/shopindream/storefront/internal/log"
)

// Client wraps outbound calls to the remote backend services and decodes every
// response through the normalized envelope.
type Client struct {
	http *http.Client
}

func NewClient(timeout time.Duration) *Client {
	return &Client{
		http: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   timeout,
		},
	}
}

func (client *Client) Get(
	c context.Context,
	url string,
	headers map[string]string,
) (Envelope, error) {
	req, err := http.NewRequestWithContext(c, http.MethodGet, url, nil)
	if err != nil {
		return Envelope{}, fmt.Errorf("failed creating request to %s with error=%w", url, err)
	}
	return client.do(c, req, headers)
}

func (client *Client) PostJson(
	c context.Context,
	url string,
	body interface{},
	headers map[string]string,
) (Envelope, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return Envelope{}, fmt.Errorf("failed marshaling request body with error=%w", err)
	}
	req, err := http.NewRequestWithContext(c, http.MethodPost, url, bytes.NewBuffer(payload))
	if err != nil {
		return Envelope{}, fmt.Errorf("failed creating request to %s with error=%w", url, err)
	}
	req.Header.Set(inHttp.KeyHeaderContentType, inHttp.ValueHeaderApplicationJson)
	return client.do(c, req, headers)
}

func (client *Client) do(
	c context.Context,
	req *http.Request,
	headers map[string]string,
) (Envelope, error) {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "BackendClient do").
		Str(log.KeyBackendURL, req.URL.String()).
		Logger()

	req.Header.Set(inHttp.KeyHeaderAccept, inHttp.ValueHeaderApplicationJson)
	if requestId := log.RequestIDFromContext(c); requestId != "" {
		req.Header.Set(inHttp.KeyHeaderRequestID, requestId)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.http.Do(req)
	if err != nil {
		return Envelope{}, fmt.Errorf("failed calling backend %s with error=%w", req.URL.String(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		envelope, _ := DecodeEnvelope(resp.Body)
		if envelope.Message != "" {
			return envelope, fmt.Errorf(
				"%w: httpStatus=%d message=%s",
				inErrors.ErrBackendStatus,
				resp.StatusCode,
				envelope.Message,
			)
		}
		return envelope, fmt.Errorf(
			"%w: httpStatus=%d",
			inErrors.ErrBackendStatus,
			resp.StatusCode,
		)
	}

	envelope, err := DecodeEnvelope(resp.Body)
	if err != nil {
		return Envelope{}, fmt.Errorf(
			"failed decoding response from %s with error=%w",
			req.URL.String(),
			err,
		)
	}
	logger.Debug().
		Int(log.KeyBackendStatus, envelope.Status).
		Msg("decoded backend response")

	if !envelope.OK() {
		if envelope.Message != "" {
			return envelope, fmt.Errorf(
				"%w: status=%d message=%s",
				inErrors.ErrBackendStatus,
				envelope.Status,
				envelope.Message,
			)
		}
		return envelope, fmt.Errorf("%w: status=%d", inErrors.ErrBackendStatus, envelope.Status)
	}
	return envelope, nil
}
