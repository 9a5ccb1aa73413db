package client

import (
	nm "github.com/tendermint/tendermint/node"
	rpcclient "github.com/tendermint/tendermint/rpc/client"
)

// NewLocalConnection wraps an in-process node, useful for tests
func NewLocalConnection(node *nm.Node) rpcclient.Client {
	return rpcclient.NewLocal(node)
}

// NewHTTPConnection sends all requests to a remote node over http or
// https, with the event subscriptions running over a websocket
func NewHTTPConnection(remote string) rpcclient.Client {
	return rpcclient.NewHTTP(remote, "/websocket")
}
