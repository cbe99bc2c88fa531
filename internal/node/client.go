package node

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"

	"github.com/setavenger/go-electrum/electrum"
)

// electrumClient is the slice of the electrum API the node consumes. The
// concrete implementation comes from go-electrum; tests plug in a fake.
type electrumClient interface {
	SubscribeHeaders(ctx context.Context) (<-chan *electrum.SubscribeHeadersResult, error)
	GetHistory(ctx context.Context, scriptHash string) ([]*electrum.GetMempoolResult, error)
	GetRawTransaction(ctx context.Context, txID string) (string, error)
	BroadcastTransaction(ctx context.Context, rawTx string) (string, error)
	Ping(ctx context.Context) error
	Shutdown()
}

// dial connects to an electrum server. Addresses carry an explicit scheme,
// ssl://host:port or tcp://host:port; a bare host:port means TCP.
func dial(ctx context.Context, server string) (electrumClient, error) {
	scheme, addr := splitServerAddr(server)
	switch scheme {
	case "ssl":
		// Electrum servers overwhelmingly run on self-signed certificates.
		return electrum.NewClientSSL(ctx, addr, &tls.Config{InsecureSkipVerify: true})
	case "tcp":
		// Third argument is a tor SOCKS5 proxy host; empty means a direct
		// TCP connection.
		return electrum.NewClientTCP(ctx, addr, "")
	default:
		return nil, fmt.Errorf("unsupported electrum scheme %q in %q", scheme, server)
	}
}

func splitServerAddr(server string) (scheme, addr string) {
	if i := strings.Index(server, "://"); i >= 0 {
		return server[:i], server[i+3:]
	}
	return "tcp", server
}
