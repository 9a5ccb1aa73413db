package client

import (
	"context"
	"testing"

	"github.com/covault/covault/covtest/assert"
)

func TestStatus(t *testing.T) {
	c := NewClient(NewLocalConnection(node))

	status, err := c.Status(context.Background())
	assert.Nil(t, err)
	assert.Equal(t, false, status.CatchingUp)
	if status.Height < 1 {
		t.Fatalf("Unexpected height from status: %d", status.Height)
	}
}

func TestHeader(t *testing.T) {
	c := NewClient(NewLocalConnection(node))
	ctx := context.Background()

	status, err := c.Status(ctx)
	assert.Nil(t, err)
	tip := status.Height

	header, err := c.Header(ctx, tip)
	assert.Nil(t, err)
	assert.Equal(t, tip, header.Height)

	// a height beyond the tip cannot be served
	if _, err := c.Header(ctx, tip+20); err == nil {
		t.Fatalf("Expected error for non-existent height")
	}
}

func TestSubscribeHeaders(t *testing.T) {
	c := NewClient(NewLocalConnection(node))
	ctx, cancel := context.WithCancel(context.Background())

	status, err := c.Status(ctx)
	assert.Nil(t, err)
	lastHeight := status.Height

	headers := make(chan Header, 5)
	assert.Nil(t, c.SubscribeHeaders(ctx, headers))

	// headers must arrive gapless and in order
	for i := 0; i < 3; i++ {
		h, ok := <-headers
		assert.Equal(t, true, ok)
		assert.Equal(t, lastHeight+1, h.Height)
		lastHeight = h.Height
	}

	// cancelling the subscription closes the channel
	cancel()
	_, ok := <-headers
	assert.Equal(t, false, ok)
}
