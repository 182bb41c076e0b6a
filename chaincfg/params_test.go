package chaincfg

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/streamforge/dropcore/keys"
)

func TestMaxClaimsPerEpochIsBitmapWordsTimesEight(t *testing.T) {
	require.Equal(t, uint32(4096), MainNet.MaxClaimsPerEpoch())
	require.Equal(t, uint32(4096), DevNet.MaxClaimsPerEpoch())
}

func TestWithProgramIDLeavesOriginalUntouched(t *testing.T) {
	var programID keys.Pubkey
	for i := range programID {
		programID[i] = 0xAB
	}

	bound := MainNet.WithProgramID(programID)
	require.Equal(t, programID, bound.ProgramID)
	require.True(t, MainNet.ProgramID.IsZero(), "WithProgramID must not mutate the receiver")
}

func TestChannelStateSizeGrowsWithRingSizeAndBitmapWidth(t *testing.T) {
	small := Params{RingSize: 1, BitmapWords: 1}
	large := Params{RingSize: 2, BitmapWords: 1}
	require.Less(t, small.ChannelStateSize(), large.ChannelStateSize())

	wider := Params{RingSize: 1, BitmapWords: 2}
	require.Less(t, small.ChannelStateSize(), wider.ChannelStateSize())
}
