package composables

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestUseActor(t *testing.T) {
	_, err := UseActor(context.Background())
	require.ErrorIs(t, err, ErrNoActor)

	actor := Actor{UserID: uuid.New(), Name: "Ana Torres"}
	ctx := WithActor(context.Background(), actor)

	got, err := UseActor(ctx)
	require.NoError(t, err)
	require.Equal(t, actor, got)
}

func TestUseActor_ZeroActorRejected(t *testing.T) {
	ctx := WithActor(context.Background(), Actor{})
	_, err := UseActor(ctx)
	require.ErrorIs(t, err, ErrNoActor)
}
