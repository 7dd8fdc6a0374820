package jsonrpc_handler

import (
	"context"
)

// Handler serves a JSON-RPC method. The given cmd is the concrete type
// registered for the method in btcjson.
type Handler func(ctx context.Context, cmd interface{}) (interface{}, error)

// MethodHandler is implemented by every group of JSON-RPC methods.
type MethodHandler interface {
	Methods() map[string]Handler
}
