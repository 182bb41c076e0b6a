package musig2

import (
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generateGuardianKeys(t *testing.T, n int) []*btcec.PublicKey {
	t.Helper()
	keys := make([]*btcec.PublicKey, n)
	for i := 0; i < n; i++ {
		priv, err := btcec.NewPrivateKey()
		require.NoError(t, err)
		keys[i] = priv.PubKey()
	}
	return keys
}

func TestAggregateKeysDeterministic(t *testing.T) {
	guardians := generateGuardianKeys(t, 5)

	agg1, err := AggregateKeys(guardians)
	require.NoError(t, err)

	agg2, err := AggregateKeys(guardians)
	require.NoError(t, err)

	assert.Equal(t, agg1, agg2, "aggregating the same guardian set twice must yield the same key")
}

func TestAggregateKeysOrderIndependent(t *testing.T) {
	guardians := generateGuardianKeys(t, 4)
	reordered := []*btcec.PublicKey{guardians[3], guardians[1], guardians[2], guardians[0]}

	aggA, err := AggregateKeys(guardians)
	require.NoError(t, err)
	aggB, err := AggregateKeys(reordered)
	require.NoError(t, err)

	assert.Equal(t, aggA, aggB, "key aggregation must not depend on input order")
}

func TestAggregateKeysRejectsTooFewGuardians(t *testing.T) {
	guardians := generateGuardianKeys(t, 1)
	_, err := AggregateKeys(guardians)
	assert.Error(t, err)
}

func TestVerifyAggregateRejectsWrongKey(t *testing.T) {
	guardians := generateGuardianKeys(t, 3)
	agg, err := AggregateKeys(guardians)
	require.NoError(t, err)

	other := generateGuardianKeys(t, 3)
	otherAgg, err := AggregateKeys(other)
	require.NoError(t, err)

	msg := [32]byte{1, 2, 3}

	priv, err := btcec.NewPrivateKey()
	require.NoError(t, err)
	sig, err := schnorr.Sign(priv, msg[:])
	require.NoError(t, err)

	assert.False(t, VerifyAggregate(agg, msg[:], sig.Serialize()))
	assert.False(t, VerifyAggregate(otherAgg, msg[:], sig.Serialize()))
}
