package escrow

import (
	"github.com/reppay/custody"
	"github.com/reppay/custody/coin"
	"github.com/tendermint/tendermint/libs/common"
)

// ClaimEventKind names the event produced by a successful claim.
const ClaimEventKind = "escrow/claim"

// ClaimEvent carries what an observer needs to reconcile a custody debit
// without reading the escrow.
type ClaimEvent struct {
	Escrow    custody.Address  `json:"escrow"`
	Sponsor   custody.Address  `json:"sponsor"`
	Merchant  custody.Address  `json:"merchant"`
	Amount    coin.Coin        `json:"amount"`
	ClaimedAt custody.UnixTime `json:"claimed_at"`
}

var _ custody.Event = (*ClaimEvent)(nil)

// EventKind implements custody.Event
func (*ClaimEvent) EventKind() string {
	return ClaimEventKind
}

// EventKey groups claims by escrow.
func (e *ClaimEvent) EventKey() []byte {
	return e.Escrow
}

// claimTags index the claim in the transaction history.
func claimTags(e *ClaimEvent) []common.KVPair {
	return []common.KVPair{
		{Key: []byte("escrow.claim"), Value: []byte(e.Escrow.String())},
		{Key: []byte("escrow.merchant"), Value: []byte(e.Merchant.String())},
	}
}
