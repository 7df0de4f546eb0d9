package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProvidersHaveBundles(t *testing.T) {
	all := Providers()
	require.NotEmpty(t, all)

	for _, p := range all {
		require.NotEmpty(t, p.ID)
		require.NotEmpty(t, p.Name)
		require.NotEmpty(t, p.Bundles, "provider %s has no bundles", p.ID)
		for _, b := range p.Bundles {
			require.NotEmpty(t, b.ID)
			require.Greater(t, b.Price, 0.0, "bundle %s has no price", b.ID)
		}
	}
}

func TestFindProvider(t *testing.T) {
	p, ok := FindProvider("mtn")
	require.True(t, ok)
	require.Equal(t, "MTN", p.Name)

	_, ok = FindProvider("nonexistent")
	require.False(t, ok)
}

func TestFindBundle(t *testing.T) {
	p, b, ok := FindBundle("mtn", "mtn-1gb")
	require.True(t, ok)
	require.Equal(t, "MTN", p.Name)
	require.Equal(t, "1GB", b.DataAmount)

	_, _, ok = FindBundle("mtn", "telecel-1gb")
	require.False(t, ok, "bundle from another provider must not resolve")

	_, _, ok = FindBundle("nonexistent", "mtn-1gb")
	require.False(t, ok)
}
