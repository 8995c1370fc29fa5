// ABOUTME: Response body decoding and blocking detection for the fingerprint transport
// ABOUTME: Handles gzip, deflate and brotli bodies under a size cap

package transport

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"compress/zlib"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/Ev3lynx727/containerd-apps-tokped-scrapper/core/domain"
	apperrors "github.com/Ev3lynx727/containerd-apps-tokped-scrapper/core/errors"
	"github.com/andybalholm/brotli"
)

// challengeMarkers only appear on interstitial pages served instead of content
var challengeMarkers = []string{
	"cf-chl",
	"challenge-platform",
	"captcha-delivery",
	"<title>access denied</title>",
}

func readBody(resp *http.Response, limit int64) ([]byte, error) {
	r, err := decoder(resp.Header.Get("Content-Encoding"), resp.Body)
	if err != nil {
		return nil, err
	}
	body, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(body)) > limit {
		return nil, fmt.Errorf("body exceeds %d bytes", limit)
	}
	return body, nil
}

func decoder(encoding string, body io.Reader) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", "identity":
		return body, nil
	case "gzip", "x-gzip":
		zr, err := gzip.NewReader(body)
		if err != nil {
			return nil, fmt.Errorf("gzip body: %w", err)
		}
		return zr, nil
	case "br":
		return brotli.NewReader(body), nil
	case "deflate":
		// Servers disagree on whether deflate carries a zlib header
		raw, err := io.ReadAll(body)
		if err != nil {
			return nil, fmt.Errorf("read body: %w", err)
		}
		if zr, err := zlib.NewReader(bytes.NewReader(raw)); err == nil {
			return zr, nil
		}
		return flate.NewReader(bytes.NewReader(raw)), nil
	}
	return nil, fmt.Errorf("unsupported content encoding %q", encoding)
}

// classify turns blocking and error statuses into typed errors
func classify(req domain.UpstreamRequest, raw *domain.RawResponse) error {
	switch {
	case raw.StatusCode == http.StatusForbidden || raw.StatusCode == http.StatusTooManyRequests:
		return &apperrors.SoftFailureError{Reason: fmt.Sprintf("upstream returned %d", raw.StatusCode), TotalData: -1}
	case raw.StatusCode < 200 || raw.StatusCode > 299:
		return &apperrors.TransportError{Op: req.Method, URL: req.URL, StatusCode: raw.StatusCode}
	}

	html := strings.Contains(strings.ToLower(raw.Header("Content-Type")), "text/html")
	if req.Kind == domain.RequestAPI && html {
		return &apperrors.SoftFailureError{Reason: "html served to api request", TotalData: -1}
	}
	if html && challenged(raw.Body) {
		return &apperrors.SoftFailureError{Reason: "challenge page", TotalData: -1}
	}
	return nil
}

func challenged(body []byte) bool {
	head := body
	if len(head) > 64<<10 {
		head = head[:64<<10]
	}
	lower := strings.ToLower(string(head))
	for _, m := range challengeMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}
