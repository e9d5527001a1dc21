package cash

import (
	"strings"
	"testing"

	"github.com/reppay/custody"
	"github.com/reppay/custody/coin"
	"github.com/reppay/custody/custodytest"
	"github.com/reppay/custody/errors"
	"github.com/stretchr/testify/assert"
)

func TestSendMsgValidate(t *testing.T) {
	src := custodytest.RandomAddr(t)
	dst := custodytest.RandomAddr(t)

	cases := map[string]struct {
		msg       *SendMsg
		wantErr   *errors.Error
		wantField string
	}{
		"valid": {
			msg: &SendMsg{Metadata: &custody.Metadata{Schema: 1}, Source: src, Destination: dst, Amount: coin.NewCoinp(1, "USDC")},
		},
		"missing metadata": {
			msg:       &SendMsg{Source: src, Destination: dst, Amount: coin.NewCoinp(1, "USDC")},
			wantErr:   errors.ErrEmpty,
			wantField: "Metadata",
		},
		"missing amount": {
			msg:       &SendMsg{Metadata: &custody.Metadata{Schema: 1}, Source: src, Destination: dst},
			wantErr:   errors.ErrInvalidAmount,
			wantField: "Amount",
		},
		"bad ticker": {
			msg:       &SendMsg{Metadata: &custody.Metadata{Schema: 1}, Source: src, Destination: dst, Amount: coin.NewCoinp(1, "usdc")},
			wantErr:   errors.ErrInvalidInput,
			wantField: "Amount",
		},
		"bad destination": {
			msg:       &SendMsg{Metadata: &custody.Metadata{Schema: 1}, Source: src, Destination: []byte{1}, Amount: coin.NewCoinp(1, "USDC")},
			wantErr:   errors.ErrInvalidInput,
			wantField: "Destination",
		},
		"memo too long": {
			msg: &SendMsg{
				Metadata:    &custody.Metadata{Schema: 1},
				Source:      src,
				Destination: dst,
				Amount:      coin.NewCoinp(1, "USDC"),
				Memo:        strings.Repeat("x", maxMemoSize+1),
			},
			wantErr:   errors.ErrInvalidInput,
			wantField: "Memo",
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := tc.msg.Validate()
			if tc.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, tc.wantErr.Is(err), "got %+v", err)
			assert.NotEmpty(t, errors.FieldErrors(err, tc.wantField))
		})
	}
}

func TestCreateAccountMsgValidate(t *testing.T) {
	owner := custodytest.RandomAddr(t)

	valid := &CreateAccountMsg{Metadata: &custody.Metadata{Schema: 1}, Owner: owner, Ticker: "USDC"}
	assert.NoError(t, valid.Validate())

	noOwner := &CreateAccountMsg{Metadata: &custody.Metadata{Schema: 1}, Ticker: "USDC"}
	assert.True(t, errors.ErrInvalidInput.Is(noOwner.Validate()))

	badTicker := &CreateAccountMsg{Metadata: &custody.Metadata{Schema: 1}, Owner: owner, Ticker: "US"}
	assert.True(t, errors.ErrInvalidInput.Is(badTicker.Validate()))
}
