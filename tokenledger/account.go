// Copyright (c) 2025 the dropcore developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package tokenledger models just enough of an SPL-token-style account to
// make the claim path's disbursement concrete: a Mint, a token Account
// (balance + owner + mint), and a checked transfer that respects an
// optional basis-point transfer fee the way a transfer-fee-extension mint
// would (spec section 4.4, step 11). The full token program is explicitly
// out of scope (spec section 1); this is the minimal surface the engine
// needs to be an authority over.
package tokenledger

import "github.com/streamforge/dropcore/keys"

// Amount is a quantity of the smallest indivisible unit of a token, the
// same role btcutil.Amount plays for satoshis in the teacher repo.
type Amount uint64

// Mint describes the fungible token the engine distributes.
type Mint struct {
	ID       keys.Pubkey
	Decimals uint8

	// TransferFeeBps is the optional transfer-fee-extension rate, in basis
	// points of the transferred amount, charged to the recipient. Zero
	// means no fee extension is active on this mint.
	TransferFeeBps uint16
}

// Fee returns the fee TransferFeeBps charges on a transfer of amount units.
func (m Mint) Fee(amount Amount) Amount {
	return Amount((uint64(amount) * uint64(m.TransferFeeBps)) / 10000)
}

// Account is a token account: a balance held under a mint, controlled by
// owner. The treasury account's owner is always a treasury authority PDA
// (treasury.AuthorityPDA); a claimer account's owner is the claimer
// themselves (or whoever they designated when the account was created).
type Account struct {
	Mint    keys.Pubkey
	Owner   keys.Pubkey
	Balance Amount
}
