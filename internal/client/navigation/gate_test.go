package navigation

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/cardkeeper/internal/client/models"
	"github.com/dmitrijs2005/cardkeeper/internal/common"
	"github.com/dmitrijs2005/cardkeeper/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGate_RefusesBeforeLoad(t *testing.T) {
	g := NewGate(logging.Discard())

	target, redirect, err := g.Evaluate(context.Background(), RouteHome, models.Flags{})
	require.ErrorIs(t, err, common.ErrStateNotLoaded)
	assert.False(t, redirect)
	assert.Equal(t, RouteHome, target)
	assert.False(t, g.Loaded())
}

func TestGate_TracksStateAcrossFlagChanges(t *testing.T) {
	ctx := context.Background()
	g := NewGate(logging.Discard())

	f := models.Flags{SeenOnboarding: true}
	g.MarkLoaded(f)
	assert.Equal(t, NeedsAuth, g.State())

	target, redirect, err := g.Evaluate(ctx, RouteHome, f)
	require.NoError(t, err)
	assert.True(t, redirect)
	assert.Equal(t, RouteSplash, target)

	f.Authenticated = true
	f.SeenThankYou = true
	f.SeenPaywall = true
	target, redirect, err = g.Evaluate(ctx, RouteLogin, f)
	require.NoError(t, err)
	assert.True(t, redirect)
	assert.Equal(t, RouteHome, target)
	assert.Equal(t, InApp, g.State())

	f.Authenticated = false
	_, _, err = g.Evaluate(ctx, RouteHome, f)
	require.NoError(t, err)
	assert.Equal(t, NeedsAuth, g.State())
}
