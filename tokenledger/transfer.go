package tokenledger

import "github.com/streamforge/dropcore/protoerr"

// CheckedTransfer moves amount units of mint.ID from from to to. It takes no
// authority: the caller must already have verified that whoever is moving
// the funds may debit from — tokenledger itself has no notion of signing.
// It mirrors the SPL "transfer_checked" contract: the mint and its declared
// decimals are passed explicitly so a caller can't accidentally transfer
// against the wrong mint, and any transfer-fee-extension rate on the mint
// is deducted from what the recipient actually receives.
//
// The return value is the amount actually credited to `to` after fees, so
// callers (and tests) can assert on it directly rather than recomputing the
// fee themselves.
func CheckedTransfer(mint Mint, from, to *Account, amount Amount, decimals uint8) (Amount, error) {
	if from.Mint != mint.ID || to.Mint != mint.ID {
		return 0, protoerr.New(protoerr.ErrTreasuryMismatch,
			"transfer mint mismatch: from=%x to=%x want=%x", from.Mint, to.Mint, mint.ID)
	}
	if decimals != mint.Decimals {
		return 0, protoerr.New(protoerr.ErrTreasuryMismatch,
			"decimals mismatch: got %d want %d", decimals, mint.Decimals)
	}
	if from.Balance < amount {
		return 0, protoerr.New(protoerr.ErrInsufficientTreasuryBalance,
			"balance %d is less than requested %d", from.Balance, amount)
	}

	fee := mint.Fee(amount)
	credited := amount - fee

	from.Balance -= amount
	to.Balance += credited

	return credited, nil
}
