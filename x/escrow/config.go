package escrow

import (
	"github.com/reppay/custody"
	"github.com/reppay/custody/errors"
	"github.com/reppay/custody/gconf"
)

// Policies for a cancel that has nothing left to return.
const (
	// ZeroRemainderTransfer records a zero value transfer. It is the
	// default.
	ZeroRemainderTransfer = "transfer"
	// ZeroRemainderElide closes the escrow without calling the transfer.
	ZeroRemainderElide = "elide"
)

const confPkg = "escrow"

// Configuration holds the escrow settings kept in gconf.
type Configuration struct {
	Metadata *custody.Metadata `json:"metadata"`
	// Owner may update the configuration.
	Owner custody.Address `json:"owner"`
	// ZeroRemainder selects how cancel treats an empty custody account.
	ZeroRemainder string `json:"zero_remainder"`
}

var _ gconf.OwnedConfig = (*Configuration)(nil)

func (c *Configuration) Marshal() ([]byte, error) {
	return custody.MarshalBinary(c)
}

func (c *Configuration) Unmarshal(raw []byte) error {
	*c = Configuration{}
	return custody.UnmarshalBinary(raw, c)
}

func (c *Configuration) Validate() error {
	var err error
	err = errors.AppendField(err, "Metadata", c.Metadata.Validate())
	err = errors.AppendField(err, "Owner", c.Owner.Validate())
	err = errors.AppendField(err, "ZeroRemainder", validPolicy(c.ZeroRemainder))
	return err
}

// GetOwner implements gconf.OwnedConfig
func (c *Configuration) GetOwner() custody.Address {
	return c.Owner
}

// elideZero reports whether an empty remainder skips the transfer.
func (c *Configuration) elideZero() bool {
	return c.ZeroRemainder == ZeroRemainderElide
}

func validPolicy(p string) error {
	switch p {
	case "", ZeroRemainderTransfer, ZeroRemainderElide:
		return nil
	}
	return errors.Wrapf(errors.ErrInvalidInput, "unknown zero remainder policy %q", p)
}

// loadConfig returns the stored configuration or the defaults when none
// was saved.
func loadConfig(db gconf.ReadStore) (*Configuration, error) {
	var conf Configuration
	switch err := gconf.Load(db, confPkg, &conf); {
	case err == nil:
		return &conf, nil
	case errors.ErrNotFound.Is(err):
		return &Configuration{ZeroRemainder: ZeroRemainderTransfer}, nil
	default:
		return nil, err
	}
}
