// Package ledgerv1connect binds the ledger API messages to Connect handlers and
// clients. Every handler and client speaks JSON through ledgerv1.JSONCodec.
package ledgerv1connect

import (
	"connectrpc.com/connect"

	"github.com/mmynk/chopbill/pkg/api/ledgerv1"
)

func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(ledgerv1.JSONCodec{})}, opts...)
}

func clientOptions(opts []connect.ClientOption) []connect.ClientOption {
	return append([]connect.ClientOption{connect.WithCodec(ledgerv1.JSONCodec{})}, opts...)
}
