package transfer

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/iov-one/weave/errors"
)

// Signers provides the signing identities of the connected network.
type Signers interface {
	// First returns the first available signing identity or
	// ErrNoSignerAvailable.
	First() (*bind.TransactOpts, error)
}

// Keyring holds transactors derived from raw private keys, in configuration
// order.
type Keyring struct {
	transactors []*bind.TransactOpts
}

// NewKeyring builds transactors for chainID from hex encoded private keys.
// Empty keys and the all zero placeholder are skipped, so an unconfigured
// environment yields an empty keyring instead of an error.
func NewKeyring(hexKeys []string, chainID *big.Int) (*Keyring, error) {
	if chainID == nil || chainID.Sign() <= 0 {
		return nil, errors.Wrap(ErrConfig, "chain id must be positive")
	}

	k := &Keyring{}
	for i, raw := range hexKeys {
		if isUnsetKey(raw) {
			continue
		}
		key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(raw), "0x"))
		if err != nil {
			return nil, errors.Wrapf(ErrConfig, "private key %d: %s", i, err)
		}
		opts, err := bind.NewKeyedTransactorWithChainID(key, chainID)
		if err != nil {
			return nil, errors.Wrapf(ErrConfig, "private key %d: %s", i, err)
		}
		k.transactors = append(k.transactors, opts)
	}
	return k, nil
}

func (k *Keyring) First() (*bind.TransactOpts, error) {
	if k == nil || len(k.transactors) == 0 {
		return nil, errors.Wrap(ErrNoSignerAvailable, "keyring is empty")
	}
	// Callers mutate gas fields, so hand out a copy.
	opts := *k.transactors[0]
	return &opts, nil
}

// Addresses returns the signer addresses in configuration order.
func (k *Keyring) Addresses() []common.Address {
	addrs := make([]common.Address, 0, len(k.transactors))
	for _, t := range k.transactors {
		addrs = append(addrs, t.From)
	}
	return addrs
}

func isUnsetKey(raw string) bool {
	raw = strings.TrimPrefix(strings.TrimSpace(raw), "0x")
	return strings.Trim(raw, "0") == ""
}
