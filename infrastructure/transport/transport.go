// ABOUTME: Fingerprinted HTTP transport presenting browser TLS handshakes and headers
// ABOUTME: uTLS ClientHello per profile, HTTP/2 when negotiated, single attempt per call

package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Ev3lynx727/containerd-apps-tokped-scrapper/core/domain"
	apperrors "github.com/Ev3lynx727/containerd-apps-tokped-scrapper/core/errors"
	"github.com/Ev3lynx727/containerd-apps-tokped-scrapper/core/fingerprint"
	"github.com/Ev3lynx727/containerd-apps-tokped-scrapper/core/interfaces"
	utls "github.com/refraction-networking/utls"
	"golang.org/x/net/http2"
)

const (
	// DefaultTimeout bounds one upstream call including the body read
	DefaultTimeout = 30 * time.Second

	// DefaultMaxBodyBytes caps a decoded response body
	DefaultMaxBodyBytes = 8 << 20
)

// Options configures the transport
type Options struct {
	Timeout            time.Duration
	MaxBodyBytes       int64
	InsecureSkipVerify bool
	Logger             interfaces.Logger
}

// Transport implements interfaces.Transport
type Transport struct {
	pool   *fingerprint.Pool
	opts   Options
	dialer *net.Dialer
}

// New creates a transport drawing profiles from pool
func New(pool *fingerprint.Pool, opts Options) *Transport {
	if pool == nil {
		pool = fingerprint.NewPool(nil)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}
	return &Transport{
		pool:   pool,
		opts:   opts,
		dialer: &net.Dialer{KeepAlive: -1},
	}
}

// Send performs one request with the profile selected by hint
func (t *Transport) Send(ctx context.Context, req domain.UpstreamRequest, hint string) (*domain.RawResponse, error) {
	prof := t.pool.Pick(hint)

	ctx, cancel := context.WithTimeout(ctx, t.opts.Timeout)
	defer cancel()

	httpReq, err := buildRequest(ctx, req, prof)
	if err != nil {
		return nil, &apperrors.TransportError{Op: req.Method, URL: req.URL, Err: err}
	}

	start := time.Now()
	resp, release, err := t.roundTrip(ctx, httpReq, prof)
	if err != nil {
		return nil, &apperrors.TransportError{Op: httpReq.Method, URL: req.URL, Err: err}
	}
	defer release()
	defer resp.Body.Close()

	body, err := readBody(resp, t.opts.MaxBodyBytes)
	if err != nil {
		return nil, &apperrors.TransportError{Op: httpReq.Method, URL: req.URL, Err: err}
	}

	t.logDebug("Upstream responded", map[string]interface{}{
		"url":         req.URL,
		"status":      resp.StatusCode,
		"fingerprint": prof.Name,
		"protocol":    resp.Proto,
		"bytes":       len(body),
		"duration_ms": time.Since(start).Milliseconds(),
	})

	raw := &domain.RawResponse{
		StatusCode:  resp.StatusCode,
		Body:        body,
		Headers:     flattenHeaders(resp.Header),
		Fingerprint: prof.Name,
	}
	if err := classify(req, raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func buildRequest(ctx context.Context, req domain.UpstreamRequest, prof fingerprint.Profile) (*http.Request, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, body)
	if err != nil {
		return nil, err
	}
	for k, v := range fingerprint.Headers(prof, req.Kind) {
		httpReq.Header.Set(k, v)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}
	if len(req.Body) > 0 && httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	// Connection management belongs to the transport
	httpReq.Header.Del("Connection")
	httpReq.Close = true
	return httpReq, nil
}

// roundTrip sends the request over a fresh connection. The release func
// closes the connection once the body has been consumed.
func (t *Transport) roundTrip(ctx context.Context, req *http.Request, prof fingerprint.Profile) (*http.Response, func(), error) {
	if req.URL.Scheme == "http" {
		rt := &http.Transport{
			DialContext:        t.dialer.DialContext,
			DisableKeepAlives:  true,
			DisableCompression: true,
		}
		resp, err := rt.RoundTrip(req)
		if err != nil {
			return nil, nil, err
		}
		return resp, rt.CloseIdleConnections, nil
	}
	if req.URL.Scheme != "https" {
		return nil, nil, fmt.Errorf("unsupported scheme %q", req.URL.Scheme)
	}

	conn, err := t.handshake(ctx, req.URL, prof)
	if err != nil {
		return nil, nil, err
	}

	if conn.ConnectionState().NegotiatedProtocol == http2.NextProtoTLS {
		h2 := &http2.Transport{DisableCompression: true}
		cc, err := h2.NewClientConn(conn)
		if err != nil {
			conn.Close()
			return nil, nil, err
		}
		resp, err := cc.RoundTrip(req)
		if err != nil {
			cc.Close()
			return nil, nil, err
		}
		return resp, func() { cc.Close() }, nil
	}

	used := false
	rt := &http.Transport{
		DialTLSContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			if used {
				return nil, fmt.Errorf("connection already used")
			}
			used = true
			return conn, nil
		},
		DisableKeepAlives:  true,
		DisableCompression: true,
	}
	resp, err := rt.RoundTrip(req)
	if err != nil {
		conn.Close()
		return nil, nil, err
	}
	return resp, func() { conn.Close() }, nil
}

func (t *Transport) handshake(ctx context.Context, u *url.URL, prof fingerprint.Profile) (*utls.UConn, error) {
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "443"
	}

	raw, err := t.dialer.DialContext(ctx, "tcp", net.JoinHostPort(host, port))
	if err != nil {
		return nil, err
	}

	conn := utls.UClient(raw, &utls.Config{
		ServerName:         host,
		InsecureSkipVerify: t.opts.InsecureSkipVerify,
	}, helloFor(prof.Name))
	if err := conn.HandshakeContext(ctx); err != nil {
		raw.Close()
		return nil, fmt.Errorf("tls handshake as %s: %w", prof.Name, err)
	}
	return conn, nil
}

// helloFor maps a profile name to the closest ClientHello uTLS ships
func helloFor(name string) utls.ClientHelloID {
	switch name {
	case "chrome120":
		return utls.HelloChrome_120
	case "chrome119":
		return utls.HelloChrome_106_Shuffle
	case "chrome110":
		return utls.HelloChrome_102
	case "safari18":
		return utls.HelloSafari_Auto
	case "firefox120":
		return utls.HelloFirefox_Auto
	}
	return utls.HelloChrome_Auto
}

func flattenHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, v := range h {
		out[k] = strings.Join(v, ", ")
	}
	return out
}

func (t *Transport) logDebug(msg string, fields map[string]interface{}) {
	if t.opts.Logger != nil {
		t.opts.Logger.Debug(msg, fields)
	}
}
