package embedding

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoOpEmbedIsDeterministic(t *testing.T) {
	provider := NewNoOp()

	a, err := provider.Embed(context.Background(), "viking sword")
	require.NoError(t, err)
	b, err := provider.Embed(context.Background(), "viking sword")
	require.NoError(t, err)

	assert.Len(t, a, Dimension)
	assert.Equal(t, a, b)
}

func TestNoOpEmbedVariesByText(t *testing.T) {
	provider := NewNoOp()

	a, err := provider.Embed(context.Background(), "viking sword")
	require.NoError(t, err)
	b, err := provider.Embed(context.Background(), "jade vessel")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}
