package requests

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRegistry_EnsureReturnsSameFetcher(t *testing.T) {
	source := &fakeSource{list: pendingFixture("a")}
	reg := NewRegistry(source, time.Minute, time.Hour, zap.NewNop())
	defer reg.StopAll()

	first := reg.Ensure("prov-1")
	second := reg.Ensure("prov-1")
	assert.Same(t, first, second)

	other := reg.Ensure("prov-2")
	assert.NotSame(t, first, other)
}

func TestRegistry_StopRemovesFetcher(t *testing.T) {
	source := &fakeSource{list: pendingFixture("a")}
	reg := NewRegistry(source, time.Minute, time.Hour, zap.NewNop())
	defer reg.StopAll()

	reg.Ensure("prov-1")
	_, ok := reg.Get("prov-1")
	require.True(t, ok)

	reg.Stop("prov-1")
	_, ok = reg.Get("prov-1")
	assert.False(t, ok)
}

func TestRegistry_GetDoesNotStart(t *testing.T) {
	source := &fakeSource{list: pendingFixture("a")}
	reg := NewRegistry(source, time.Minute, time.Hour, zap.NewNop())
	defer reg.StopAll()

	_, ok := reg.Get("prov-1")
	assert.False(t, ok)
}
