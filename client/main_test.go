package client

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/tendermint/tendermint/abci/example/kvstore"
	nm "github.com/tendermint/tendermint/node"
	rpctest "github.com/tendermint/tendermint/rpc/test"
)

// node is the embedded tendermint instance shared by all tests in
// this package
var node *nm.Node

func getChainID() string {
	return rpctest.GetConfig().ChainID()
}

func TestMain(m *testing.M) {
	config := rpctest.GetConfig()
	config.Moniker = "CovaultClientTest"
	// index every tag, an IndexTags entry would override IndexAllTags
	// and break tx lookup by hash
	config.TxIndex.IndexTags = ""
	config.TxIndex.IndexAllTags = true

	// the generic kvstore app is enough to exercise the rpc layer
	app := kvstore.NewKVStoreApplication()
	fmt.Println("Starting tendermint...")
	node = rpctest.StartTendermint(app)

	// give the node a moment, then require one produced block before
	// letting any test run
	fmt.Println("Wait for first block...")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	h, err := NewClient(NewLocalConnection(node)).WaitForNextBlock(ctx)

	var code int
	if err == nil {
		fmt.Printf("Starting tests with block %d\n", h.Height)
		code = m.Run()
	} else {
		fmt.Printf("Failed to start tendermint: %s\n", err)
		code = 1
	}

	node.Stop()
	node.Wait()
	os.Exit(code)
}
