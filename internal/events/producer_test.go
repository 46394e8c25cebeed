package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNilProducerIsNoop(t *testing.T) {
	var p *Producer

	err := p.Publish(context.Background(), TopicUserEvents, "1", map[string]any{"type": "user_registered"})
	require.NoError(t, err)
	require.NoError(t, p.Close())
}

func TestEmptyProducerIsNoop(t *testing.T) {
	p := &Producer{}

	err := p.Publish(context.Background(), TopicProductEvents, "1", map[string]any{"type": "product_created"})
	require.NoError(t, err)
	require.NoError(t, p.Close())
}
