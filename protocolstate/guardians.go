package protocolstate

import (
	"github.com/streamforge/dropcore/crypto/musig2"
	"github.com/streamforge/dropcore/keys"
	"github.com/streamforge/dropcore/protoerr"
)

// SetGuardians switches s to guardian-threshold governance by recording the
// guardian keys and threshold on s. It does not compute a MuSig2 aggregate
// of the guardians and leaves AdminKey unchanged, so VerifyGovernanceSignature
// checks signatures against whatever key AdminKey already holds. Once
// Guardians is non-empty, RequireAdmin refuses the single-signer path.
// Only the current admin key may make this change.
func (s *State) SetGuardians(signer keys.Pubkey, guardianPubkeys [][]byte, threshold uint8) error {
	if signer != s.AdminKey {
		return protoerr.New(protoerr.ErrUnauthorized, "signer %x is not the admin", signer)
	}
	if int(threshold) > len(guardianPubkeys) || threshold == 0 {
		return protoerr.New(protoerr.ErrUnauthorized,
			"threshold %d invalid for %d guardians", threshold, len(guardianPubkeys))
	}

	guardians := make([]keys.Pubkey, len(guardianPubkeys))
	for i, b := range guardianPubkeys {
		pk, err := keys.FromBytes(b)
		if err != nil {
			return protoerr.New(protoerr.ErrUnauthorized, "guardian %d: %v", i, err)
		}
		guardians[i] = pk
	}

	s.Guardians = guardians
	s.Threshold = threshold
	log.Infof("protocol %x now governed by %d guardians (threshold %d)", s.TokenID, len(guardians), threshold)
	return nil
}

// VerifyGovernanceSignature checks an aggregated schnorr signature over msg
// against s.AdminKey, for use when s.Guardians is set. The governance ops
// (SetPaused, UpdatePublisher, UpdateAdmin) do not call it and take no
// signature: they go through RequireAdmin, which refuses once guardians are
// configured, so those ops are rejected while Guardians is non-empty.
func (s *State) VerifyGovernanceSignature(msg, aggregateSig []byte) error {
	if len(s.Guardians) == 0 {
		return protoerr.New(protoerr.ErrUnauthorized, "protocol is not configured for guardian governance")
	}
	if !musig2.VerifyAggregate([32]byte(s.AdminKey), msg, aggregateSig) {
		return protoerr.New(protoerr.ErrUnauthorized, "aggregated guardian signature does not verify")
	}
	return nil
}
