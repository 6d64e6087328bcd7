package solana

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"
)

// WSClient defines the Solana WebSocket subscriptions the wallet uses.
type WSClient interface {
	// SubscribeSignature waits for one notification about signature at commitment.
	// The channel yields a single value and is then closed.
	SubscribeSignature(ctx context.Context, signature, commitment string) (<-chan SignatureNotification, error)

	// Close closes the WebSocket connection.
	Close() error
}

// SignatureNotification is the result of a signatureSubscribe.
type SignatureNotification struct {
	Signature string
	Slot      uint64
	Err       interface{}
}

// WSEndpoint derives the WebSocket endpoint from an HTTP RPC endpoint.
// http becomes ws and https becomes wss; an explicit port is incremented by one,
// matching the validator's RPC/pubsub port pair. ws URLs pass through.
func WSEndpoint(httpEndpoint string) (string, error) {
	u, err := url.Parse(httpEndpoint)
	if err != nil {
		return "", fmt.Errorf("parse endpoint: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
		return u.String(), nil
	default:
		return "", fmt.Errorf("unsupported endpoint scheme %q", u.Scheme)
	}
	if port := u.Port(); port != "" {
		n, err := strconv.Atoi(port)
		if err != nil {
			return "", fmt.Errorf("invalid port %q", port)
		}
		u.Host = net.JoinHostPort(u.Hostname(), strconv.Itoa(n+1))
	}
	return u.String(), nil
}
