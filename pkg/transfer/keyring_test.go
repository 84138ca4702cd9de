package transfer

import (
	"crypto/ecdsa"
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/exachain/ibc-transfer/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyringFirstFollowsConfigurationOrder(t *testing.T) {
	first, err := crypto.GenerateKey()
	require.NoError(t, err)
	second, err := crypto.GenerateKey()
	require.NoError(t, err)

	k, err := NewKeyring([]string{
		"",
		hex.EncodeToString(crypto.FromECDSA(first)),
		"0x" + hex.EncodeToString(crypto.FromECDSA(second)),
	}, big.NewInt(testChainID))
	require.NoError(t, err)

	opts, err := k.First()
	require.NoError(t, err)
	assert.Equal(t, crypto.PubkeyToAddress(first.PublicKey), opts.From)
	assert.Len(t, k.Addresses(), 2)

	// Handed out options are copies.
	opts.GasLimit = 1
	again, err := k.First()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), again.GasLimit)
}

func TestKeyringRejectsInvalidInput(t *testing.T) {
	if _, err := NewKeyring([]string{"0xzz"}, big.NewInt(testChainID)); !ErrConfig.Is(err) {
		t.Fatalf("want ErrConfig, got %v", err)
	}
	if _, err := NewKeyring(nil, big.NewInt(0)); !ErrConfig.Is(err) {
		t.Fatalf("want ErrConfig, got %v", err)
	}

	var empty *Keyring
	if _, err := empty.First(); !ErrNoSignerAvailable.Is(err) {
		t.Fatalf("want ErrNoSignerAvailable, got %v", err)
	}
}

func TestNewParams(t *testing.T) {
	conf := config.Default()

	noble, err := conf.Transfer("noble")
	require.NoError(t, err)
	p, err := NewParams("noble", noble)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1000), p.Amount)
	assert.Equal(t, "channel-3", p.Channel)

	byValue := noble
	byValue.Amount = ""
	byValue.Value = "0.000000000000001000"
	p, err = NewParams("noble", byValue)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1000), p.Amount)

	noAmount := noble
	noAmount.Amount = ""
	if _, err := NewParams("noble", noAmount); !ErrConfig.Is(err) {
		t.Fatalf("want ErrConfig, got %v", err)
	}

	badAmount := noble
	badAmount.Amount = "1e3"
	if _, err := NewParams("noble", badAmount); !ErrInvalidAmount.Is(err) {
		t.Fatalf("want ErrInvalidAmount, got %v", err)
	}

	req := p.Request(crypto.PubkeyToAddress(mustKey(t).PublicKey))
	assert.Equal(t, "transfer", req.SourcePort)
	req.Amount.SetInt64(1)
	assert.Equal(t, big.NewInt(1000), p.Amount)
}

func mustKey(t *testing.T) *ecdsa.PrivateKey {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	return key
}
