package services

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	ierr "maidhub/internal/errors"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/hashicorp/go-retryablehttp"
)

const (
	UPSTREAM_TIMEOUT     = 10 * time.Second
	UPSTREAM_RETRY_MAX   = 2
	UPSTREAM_MAX_BODY    = 1 << 20
	UPSTREAM_RETRY_WAIT  = 200 * time.Millisecond
	UPSTREAM_RETRY_LIMIT = 2 * time.Second
)

// newUpstreamClient builds the retrying HTTP client shared by the external
// collaborators.
func newUpstreamClient() *retryablehttp.Client {
	client := retryablehttp.NewClient()
	client.RetryMax = UPSTREAM_RETRY_MAX
	client.RetryWaitMin = UPSTREAM_RETRY_WAIT
	client.RetryWaitMax = UPSTREAM_RETRY_LIMIT
	client.HTTPClient.Timeout = UPSTREAM_TIMEOUT
	client.Logger = nil
	return client
}

// doJSON sends req and decodes a 2xx JSON body into out. Any failure is
// marked ErrUpstream with hint.
func doJSON(
	client *retryablehttp.Client,
	req *retryablehttp.Request,
	out any,
	hint string,
	log logger.Logger,
) error {
	resp, err := client.Do(req)
	if err != nil {
		return upstreamErr(log.Err("upstream request failed", err, "host", req.URL.Host), hint)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			log.Warn("Failed to close response body", "error", closeErr)
		}
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return upstreamErr(
			log.Error("upstream returned error status", "statusCode", resp.StatusCode, "host", req.URL.Host),
			hint,
		)
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, UPSTREAM_MAX_BODY)).Decode(out); err != nil {
		return upstreamErr(log.Err("failed to decode upstream response", err), hint)
	}

	return nil
}

func upstreamErr(err error, hint string) error {
	return ierr.WithError(err).WithHint(hint).Mark(ierr.ErrUpstream)
}
