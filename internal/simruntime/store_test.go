package simruntime

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/streamforge/dropcore/chaincfg"
	"github.com/streamforge/dropcore/chainhash"
	"github.com/streamforge/dropcore/channelstate"
	"github.com/streamforge/dropcore/keys"
	"github.com/streamforge/dropcore/protocolstate"
)

func fixedKey(b byte) keys.Pubkey {
	var k keys.Pubkey
	for i := range k {
		k[i] = b
	}
	return k
}

func TestProtocolStateRoundTrip(t *testing.T) {
	store, err := Open(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	account := fixedKey(0x01)
	ps := protocolstate.Initialize(255, fixedKey(0x02), fixedKey(0x03), fixedKey(0x04), fixedKey(0x05))

	require.NoError(t, store.PutProtocolState(account, ps))

	got, err := store.GetProtocolState(account)
	require.NoError(t, err)
	require.Equal(t, ps, got)
}

func TestGetProtocolStateMissingReturnsNil(t *testing.T) {
	store, err := Open(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	got, err := store.GetProtocolState(fixedKey(0xFF))
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestChannelStateRoundTripBindsParams(t *testing.T) {
	store, err := Open(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	params := chaincfg.DevNet
	account := fixedKey(0x10)
	channelKey := chainhash.ChannelKey("AliceTV")
	cs := channelstate.New(params, fixedKey(0x02), channelKey, 254)

	require.NoError(t, store.PutChannelState(account, cs))

	got, err := store.GetChannelState(account, channelKey, params)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, params.MaxClaimsPerEpoch(), got.Params().MaxClaimsPerEpoch())
	require.Equal(t, channelKey, got.ChannelKey)
}

func TestChannelStateCacheHitSkipsDecode(t *testing.T) {
	store, err := Open(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	params := chaincfg.DevNet
	account := fixedKey(0x11)
	channelKey := chainhash.ChannelKey("BobTV")
	cs := channelstate.New(params, fixedKey(0x02), channelKey, 253)
	require.NoError(t, store.PutChannelState(account, cs))

	first, err := store.GetChannelState(account, channelKey, params)
	require.NoError(t, err)

	second, err := store.GetChannelState(account, channelKey, params)
	require.NoError(t, err)

	require.Same(t, first, second, "a cache hit must return the same decoded instance")
}

func TestDeleteRemovesChannelState(t *testing.T) {
	store, err := Open(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	params := chaincfg.DevNet
	account := fixedKey(0x12)
	channelKey := chainhash.ChannelKey("CarolTV")
	cs := channelstate.New(params, fixedKey(0x02), channelKey, 252)
	require.NoError(t, store.PutChannelState(account, cs))

	require.NoError(t, store.Delete(account, channelKey))

	got, err := store.GetChannelState(account, channelKey, params)
	require.NoError(t, err)
	require.Nil(t, got)
}
