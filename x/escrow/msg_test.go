package escrow

import (
	"testing"

	"github.com/reppay/custody"
	"github.com/reppay/custody/coin"
	"github.com/reppay/custody/custodytest"
	"github.com/reppay/custody/errors"
	"github.com/reppay/custody/x/cash"
	"github.com/stretchr/testify/assert"
)

func TestOpenMsgValidate(t *testing.T) {
	sponsor := custodytest.RandomAddr(t)
	merchant := custodytest.RandomAddr(t)

	cases := map[string]struct {
		msg      *OpenMsg
		wantErrs map[string]*errors.Error
	}{
		"valid": {
			msg: &OpenMsg{
				Metadata: &custody.Metadata{Schema: 1},
				Sponsor:  sponsor,
				Merchant: merchant,
				Amount:   coin.NewCoinp(10, "USDC"),
			},
			wantErrs: map[string]*errors.Error{
				"Metadata": nil,
				"Sponsor":  nil,
				"Merchant": nil,
				"Source":   nil,
				"Amount":   nil,
			},
		},
		"missing everything": {
			msg: &OpenMsg{},
			wantErrs: map[string]*errors.Error{
				"Metadata": errors.ErrEmpty,
				"Sponsor":  errors.ErrInvalidInput,
				"Merchant": errors.ErrInvalidInput,
				"Amount":   errors.ErrInvalidAmount,
			},
		},
		"sponsor pays itself": {
			msg: &OpenMsg{
				Metadata: &custody.Metadata{Schema: 1},
				Sponsor:  sponsor,
				Merchant: sponsor,
				Amount:   coin.NewCoinp(10, "USDC"),
			},
			wantErrs: map[string]*errors.Error{
				"Sponsor":  nil,
				"Merchant": errors.ErrInvalidInput,
			},
		},
		"bad source and ticker": {
			msg: &OpenMsg{
				Metadata: &custody.Metadata{Schema: 1},
				Sponsor:  sponsor,
				Merchant: merchant,
				Source:   []byte{1, 2},
				Amount:   coin.NewCoinp(10, "usd"),
			},
			wantErrs: map[string]*errors.Error{
				"Source": errors.ErrInvalidInput,
				"Amount": errors.ErrInvalidInput,
			},
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := tc.msg.Validate()
			for field, want := range tc.wantErrs {
				got := errors.FieldErrors(err, field)
				if want == nil {
					assert.Empty(t, got, field)
					continue
				}
				if assert.NotEmpty(t, got, field) {
					assert.True(t, want.Is(got[0]), "%s: %+v", field, got[0])
				}
			}
		})
	}
}

func TestOpenMsgSource(t *testing.T) {
	sponsor := custodytest.RandomAddr(t)
	msg := &OpenMsg{Sponsor: sponsor, Amount: coin.NewCoinp(1, "USDC")}
	assert.Equal(t, cash.AccountAddress(sponsor, "USDC"), msg.source())

	other := custodytest.RandomAddr(t)
	msg.Source = other
	assert.Equal(t, other, msg.source())
}

func TestClaimAndCancelMsgValidate(t *testing.T) {
	id := custodytest.RandomAddr(t)
	meta := &custody.Metadata{Schema: 1}

	assert.NoError(t, (&ClaimMsg{Metadata: meta, EscrowID: id, Amount: 1}).Validate())
	assert.NoError(t, (&CancelMsg{Metadata: meta, EscrowID: id}).Validate())

	err := (&ClaimMsg{Metadata: meta, EscrowID: id}).Validate()
	assert.True(t, errors.ErrInvalidAmount.Is(err))
	err = (&ClaimMsg{Metadata: meta, Amount: 1}).Validate()
	assert.True(t, errors.ErrInvalidInput.Is(err))
	err = (&ClaimMsg{Metadata: meta, EscrowID: id, Amount: 1, Destination: []byte{7}}).Validate()
	assert.True(t, errors.ErrInvalidInput.Is(err))
	err = (&CancelMsg{EscrowID: id}).Validate()
	assert.True(t, errors.ErrEmpty.Is(err))
}

func TestUpdateConfigurationMsgValidate(t *testing.T) {
	meta := &custody.Metadata{Schema: 1}
	assert.NoError(t, (&UpdateConfigurationMsg{Metadata: meta, Patch: &Configuration{ZeroRemainder: ZeroRemainderElide}}).Validate())
	assert.NoError(t, (&UpdateConfigurationMsg{Metadata: meta, Patch: &Configuration{Owner: custodytest.RandomAddr(t)}}).Validate())

	err := (&UpdateConfigurationMsg{Metadata: meta}).Validate()
	assert.True(t, errors.ErrEmpty.Is(err))
	err = (&UpdateConfigurationMsg{Metadata: meta, Patch: &Configuration{ZeroRemainder: "burn"}}).Validate()
	assert.True(t, errors.ErrInvalidInput.Is(err))
}
