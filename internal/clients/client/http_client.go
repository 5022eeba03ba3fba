package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/babylonlabs-io/token-economics/internal/observability/metrics"
	"github.com/babylonlabs-io/token-economics/internal/types"
	"github.com/rs/zerolog/log"
)

// maxErrorBodySize caps how much of an error response is kept in the error
const maxErrorBodySize = 1024

type HttpClient interface {
	GetBaseURL() string
	GetDefaultRequestTimeout() time.Duration
	GetHttpClient() *http.Client
}

type HttpClientOptions struct {
	Timeout      time.Duration
	Path         string
	TemplatePath string // Metrics purpose
	Headers      map[string]string
}

// SendRequest sends a JSON encoded input (if any) and decodes a JSON response
// into R. Non 2xx responses are returned as *types.Error carrying the
// response status code.
func SendRequest[I any, R any](
	ctx context.Context, client HttpClient, method string, opts *HttpClientOptions, input *I,
) (*R, error) {
	timeout := client.GetDefaultRequestTimeout()
	if opts.Timeout > 0 {
		timeout = opts.Timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var body io.Reader
	if input != nil {
		payload, err := json.Marshal(input)
		if err != nil {
			return nil, types.NewErrorWithMsg(
				http.StatusInternalServerError, types.InternalServiceError,
				fmt.Sprintf("failed to marshal request body: %v", err),
			)
		}
		body = bytes.NewReader(payload)
	}

	url := client.GetBaseURL() + opts.Path
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, types.NewErrorWithMsg(
			http.StatusInternalServerError, types.InternalServiceError,
			fmt.Sprintf("failed to create request: %v", err),
		)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}

	// status code 0 stands for a request that never got a response
	timer := metrics.StartClientRequestDurationTimer(client.GetBaseURL(), method, opts.TemplatePath)

	resp, err := client.GetHttpClient().Do(req)
	if err != nil {
		timer(0)
		if ctx.Err() != nil {
			return nil, types.NewErrorWithMsg(
				http.StatusGatewayTimeout, types.InternalServiceError,
				fmt.Sprintf("request to %s timed out: %v", opts.TemplatePath, err),
			)
		}
		return nil, types.NewErrorWithMsg(
			http.StatusBadGateway, types.InternalServiceError,
			fmt.Sprintf("failed to send request to %s: %v", opts.TemplatePath, err),
		)
	}
	defer resp.Body.Close()
	timer(resp.StatusCode)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		log.Ctx(ctx).Debug().
			Int("status", resp.StatusCode).
			Str("path", opts.TemplatePath).
			Msg("client request returned non 2xx status")

		code := types.InternalServiceError
		if resp.StatusCode < http.StatusInternalServerError {
			code = types.BadRequest
		}
		return nil, types.NewErrorWithMsg(
			resp.StatusCode, code,
			fmt.Sprintf("%s returned %d: %s", opts.TemplatePath, resp.StatusCode, bytes.TrimSpace(errBody)),
		)
	}

	var output R
	if resp.StatusCode == http.StatusNoContent {
		return &output, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(&output); err != nil {
		return nil, types.NewErrorWithMsg(
			http.StatusInternalServerError, types.InternalServiceError,
			fmt.Sprintf("failed to decode response from %s: %v", opts.TemplatePath, err),
		)
	}

	return &output, nil
}
