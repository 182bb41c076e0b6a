package protocolstate

import (
	"testing"

	"github.com/stretchr/testify/require"

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

func newState() *State {
	return Initialize(255, samplePubkey(0x01), samplePubkey(0x02), samplePubkey(0x03), samplePubkey(0x04))
}

func TestInitializeSetsFields(t *testing.T) {
	s := newState()
	require.Equal(t, samplePubkey(0x02), s.AdminKey)
	require.Equal(t, samplePubkey(0x03), s.PublisherKey)
	require.Equal(t, samplePubkey(0x04), s.TreasuryOwnerKey)
	require.False(t, s.Paused)
}

func TestRequireAdminRejectsWrongSigner(t *testing.T) {
	s := newState()
	require.True(t, protoerr.Is(s.RequireAdmin(samplePubkey(0xFF)), protoerr.ErrUnauthorized))
}

func TestRequirePublisherRejectsWrongSigner(t *testing.T) {
	s := newState()
	require.True(t, protoerr.Is(s.RequirePublisher(samplePubkey(0xFF)), protoerr.ErrUnauthorized))
}

func TestSetPausedRequiresAdmin(t *testing.T) {
	s := newState()
	require.True(t, protoerr.Is(s.SetPaused(samplePubkey(0xFF), true), protoerr.ErrUnauthorized))
	require.False(t, s.Paused)

	require.NoError(t, s.SetPaused(s.AdminKey, true))
	require.True(t, s.Paused)
	require.True(t, protoerr.Is(s.RequireNotPaused(), protoerr.ErrPaused))
}

func TestUpdatePublisherRotatesKey(t *testing.T) {
	s := newState()
	newPublisher := samplePubkey(0x99)
	require.NoError(t, s.UpdatePublisher(s.AdminKey, newPublisher))
	require.Equal(t, newPublisher, s.PublisherKey)
	require.NoError(t, s.RequirePublisher(newPublisher))
}

func TestUpdateAdminClearsGuardians(t *testing.T) {
	s := newState()
	require.NoError(t, s.SetGuardians(s.AdminKey, [][]byte{samplePubkey(0x10).Bytes(), samplePubkey(0x11).Bytes()}, 2))
	require.Len(t, s.Guardians, 2)

	newAdmin := samplePubkey(0x20)
	require.NoError(t, s.UpdateAdmin(s.AdminKey, newAdmin))
	require.Equal(t, newAdmin, s.AdminKey)
	require.Empty(t, s.Guardians)
	require.Zero(t, s.Threshold)
}

func TestRequireAdminRefusesOnceGuardiansConfigured(t *testing.T) {
	s := newState()
	require.NoError(t, s.SetGuardians(s.AdminKey, [][]byte{samplePubkey(0x10).Bytes(), samplePubkey(0x11).Bytes()}, 2))

	require.True(t, protoerr.Is(s.RequireAdmin(s.AdminKey), protoerr.ErrUnauthorized),
		"the single-signer path must not be usable once guardian governance is active")
}

func TestSetGuardiansRejectsThresholdAboveGuardianCount(t *testing.T) {
	s := newState()
	err := s.SetGuardians(s.AdminKey, [][]byte{samplePubkey(0x10).Bytes()}, 2)
	require.True(t, protoerr.Is(err, protoerr.ErrUnauthorized))
}

func TestSetGuardiansRejectsZeroThreshold(t *testing.T) {
	s := newState()
	err := s.SetGuardians(s.AdminKey, [][]byte{samplePubkey(0x10).Bytes()}, 0)
	require.True(t, protoerr.Is(err, protoerr.ErrUnauthorized))
}

func TestVerifyGovernanceSignatureRequiresGuardiansConfigured(t *testing.T) {
	s := newState()
	err := s.VerifyGovernanceSignature([]byte("msg"), []byte("sig"))
	require.True(t, protoerr.Is(err, protoerr.ErrUnauthorized))
}
