package interfaces

import (
	"context"

	"github.com/Ev3lynx727/containerd-apps-tokped-scrapper/core/domain"
)

// Transport sends upstream requests while presenting a browser fingerprint.
//
// Send makes exactly one attempt. Network failures and timeouts are returned
// as *errors.TransportError; responses that are well-formed but signal
// blocking are returned as *errors.SoftFailureError. fingerprintHint names a
// profile to use; an empty hint leaves the choice to the configured policy.
type Transport interface {
	Send(ctx context.Context, req domain.UpstreamRequest, fingerprintHint string) (*domain.RawResponse, error)
}
