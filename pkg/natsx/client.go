// Package natsx wraps NATS connection setup for event fan-out.
package natsx

import (
	"os"

	"github.com/nats-io/nats.go"
)

// NewClient connects to the NATS server named by the NATS_URL environment
// variable. Without explicit options the connection identifies itself as
// "warden" and enables compression.
func NewClient(opts ...nats.Option) (*nats.Conn, error) {
	if len(opts) == 0 {
		opts = append(opts, nats.Name("warden"), nats.Compression(true))
	}
	return nats.Connect(os.Getenv("NATS_URL"), opts...)
}
