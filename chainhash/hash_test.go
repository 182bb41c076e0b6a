package chainhash

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestSum256IsDeterministic(t *testing.T) {
	a := Sum256([]byte("alpha"), []byte("beta"))
	b := Sum256([]byte("alpha"), []byte("beta"))
	require.Equal(t, a, b)
}

func TestSum256ConcatenatesArguments(t *testing.T) {
	// Sum256 writes each argument in sequence with no separator, so where
	// the input is split between arguments does not change the digest:
	// "alpha","beta" hashes the same as "alphabeta". Callers that need field
	// boundaries must encode them into the bytes themselves.
	whole := Sum256([]byte("alphabeta"))
	split := Sum256([]byte("alpha"), []byte("beta"))
	require.Equal(t, whole, split, "Sum256 just concatenates its arguments before hashing")
}

func TestNewHashRejectsWrongLength(t *testing.T) {
	_, err := NewHash([]byte{1, 2, 3})
	require.ErrorIs(t, err, ErrBadHashLen)
}

func TestNewHashRoundTrip(t *testing.T) {
	h := Sum256([]byte("whatever"))
	got, err := NewHash(h[:])
	require.NoError(t, err)
	require.Equal(t, h, got)
}

func TestCompareIsConsistentWithBytesOrder(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := Sum256([]byte(rapid.String().Draw(t, "a")))
		b := Sum256([]byte(rapid.String().Draw(t, "b")))

		cmp := Compare(a, b)
		switch {
		case a == b:
			require.Equal(t, 0, cmp)
		case cmp < 0:
			require.Equal(t, Compare(b, a), 1)
		case cmp > 0:
			require.Equal(t, Compare(b, a), -1)
		}
	})
}

func TestChannelKeyIsASCIICaseInsensitive(t *testing.T) {
	require.Equal(t, ChannelKey("AliceTV"), ChannelKey("aliceTV"))
	require.Equal(t, ChannelKey("ALICETV"), ChannelKey("aliceTV"))
}

func TestChannelKeyDistinguishesDistinctNames(t *testing.T) {
	require.NotEqual(t, ChannelKey("AliceTV"), ChannelKey("BobTV"))
}

func TestChannelKeyStableAcrossRandomNames(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		name := rapid.StringMatching(`[A-Za-z0-9_]{1,32}`).Draw(t, "name")
		require.Equal(t, ChannelKey(name), ChannelKey(name))
	})
}
