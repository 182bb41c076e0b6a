package treasury

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/streamforge/dropcore/chainhash"
	"github.com/streamforge/dropcore/keys"
	"github.com/streamforge/dropcore/protoerr"
)

func samplePubkey(b byte) keys.Pubkey {
	var k keys.Pubkey
	for i := range k {
		k[i] = b
	}
	return k
}

func TestProtocolStatePDAIsOffCurve(t *testing.T) {
	programID := samplePubkey(0x10)
	tokenID := samplePubkey(0x20)

	pda, _, err := ProtocolStatePDA(programID, tokenID)
	require.NoError(t, err)
	require.False(t, pda.OnCurve())
}

func TestProtocolStatePDAIsDeterministic(t *testing.T) {
	programID := samplePubkey(0x10)
	tokenID := samplePubkey(0x20)

	pda1, bump1, err := ProtocolStatePDA(programID, tokenID)
	require.NoError(t, err)
	pda2, bump2, err := ProtocolStatePDA(programID, tokenID)
	require.NoError(t, err)

	require.Equal(t, pda1, pda2)
	require.Equal(t, bump1, bump2)
}

func TestDistinctPDAKindsDoNotCollide(t *testing.T) {
	programID := samplePubkey(0x10)
	tokenID := samplePubkey(0x20)
	channelKey := chainhash.ChannelKey("AliceTV")

	protocolPDA, _, err := ProtocolStatePDA(programID, tokenID)
	require.NoError(t, err)
	channelPDA, _, err := ChannelStatePDA(programID, tokenID, channelKey)
	require.NoError(t, err)
	authorityPDA, _, err := AuthorityPDA(programID, tokenID)
	require.NoError(t, err)

	require.NotEqual(t, protocolPDA, channelPDA)
	require.NotEqual(t, protocolPDA, authorityPDA)
	require.NotEqual(t, channelPDA, authorityPDA)
}

func TestChannelStatePDAVariesByChannelKey(t *testing.T) {
	programID := samplePubkey(0x10)
	tokenID := samplePubkey(0x20)

	a, _, err := ChannelStatePDA(programID, tokenID, chainhash.ChannelKey("AliceTV"))
	require.NoError(t, err)
	b, _, err := ChannelStatePDA(programID, tokenID, chainhash.ChannelKey("BobTV"))
	require.NoError(t, err)

	require.NotEqual(t, a, b)
}

func TestVerifyPDARejectsMismatch(t *testing.T) {
	programID := samplePubkey(0x10)
	tokenID := samplePubkey(0x20)

	expected, _, err := ProtocolStatePDA(programID, tokenID)
	require.NoError(t, err)

	err = VerifyPDA(expected, samplePubkey(0xFF))
	require.Error(t, err)
	require.True(t, protoerr.Is(err, protoerr.ErrInvalidPDA))
}

func TestVerifyPDAAcceptsMatch(t *testing.T) {
	programID := samplePubkey(0x10)
	tokenID := samplePubkey(0x20)

	expected, _, err := ProtocolStatePDA(programID, tokenID)
	require.NoError(t, err)

	require.NoError(t, VerifyPDA(expected, expected))
}
