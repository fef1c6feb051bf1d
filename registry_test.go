package tbucket

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFactory() (*Bucket, error) {
	return NewBuilder(WithRate(10)).Build()
}

func TestRegistryGetOrCreateLazilyBuilds(t *testing.T) {
	reg := NewRegistry(testFactory, nil, 0)

	b1, err := reg.GetOrCreate("tenant-a")
	require.NoError(t, err)

	b2, err := reg.GetOrCreate("tenant-a")
	require.NoError(t, err)

	assert.Same(t, b1, b2)
}

func TestRegistryGetOrCreateIsolatesKeys(t *testing.T) {
	reg := NewRegistry(testFactory, nil, 0)

	a, err := reg.GetOrCreate("a")
	require.NoError(t, err)
	b, err := reg.GetOrCreate("b")
	require.NoError(t, err)

	assert.NotSame(t, a, b)
}

func TestRegistryGetExistingUnknownKey(t *testing.T) {
	reg := NewRegistry(testFactory, nil, 0)

	_, err := reg.GetExisting("missing")
	assert.ErrorIs(t, err, ErrUnknownBucket)
}

func TestRegistryGetExistingAfterCreate(t *testing.T) {
	reg := NewRegistry(testFactory, nil, 0)

	created, err := reg.GetOrCreate("k")
	require.NoError(t, err)

	found, err := reg.GetExisting("k")
	require.NoError(t, err)
	assert.Same(t, created, found)
}

func TestRegistryDeleteRemovesBucket(t *testing.T) {
	reg := NewRegistry(testFactory, nil, 0)

	_, err := reg.GetOrCreate("k")
	require.NoError(t, err)

	reg.Delete("k")

	_, err = reg.GetExisting("k")
	assert.ErrorIs(t, err, ErrUnknownBucket)
}

func TestRegistryStatusReportsCreatedBuckets(t *testing.T) {
	reg := NewRegistry(testFactory, nil, 0)

	_, err := reg.GetOrCreate("x")
	require.NoError(t, err)
	_, err = reg.GetOrCreate("y")
	require.NoError(t, err)

	statuses := reg.Status()
	assert.Len(t, statuses, 2)

	keys := map[string]bool{}
	for _, s := range statuses {
		keys[s.Key] = true
		assert.Equal(t, int64(10), s.Capacity)
	}
	assert.True(t, keys["x"])
	assert.True(t, keys["y"])
}

func TestRegistryStatusOmitsDeletedBuckets(t *testing.T) {
	reg := NewRegistry(testFactory, nil, 0)

	_, err := reg.GetOrCreate("x")
	require.NoError(t, err)
	reg.Delete("x")

	assert.Empty(t, reg.Status())
}

func TestRegistryPropagatesFactoryError(t *testing.T) {
	reg := NewRegistry(func() (*Bucket, error) {
		return NewBuilder().Build() // missing rate
	}, nil, 0)

	_, err := reg.GetOrCreate("k")
	assert.ErrorIs(t, err, ErrRateRequired)
}

func TestSyncMapCacheRoundTrip(t *testing.T) {
	c := newSyncMapCache[string, int]()

	_, ok := c.Get("missing")
	assert.False(t, ok)

	c.Set("k", 42, 0)
	v, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, 42, v)

	c.Delete("k")
	_, ok = c.Get("k")
	assert.False(t, ok)
}
