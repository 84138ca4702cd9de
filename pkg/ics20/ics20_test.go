package ics20

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/exachain/ibc-transfer/pkg/models"
	"github.com/iov-one/weave/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sender = common.HexToAddress("0x7eaf74eA145a5A81764EC2ce5fb40cd06DFDD18f")

// nopBackend satisfies the binding. Log decoding never reaches the chain.
type nopBackend struct {
	bind.ContractBackend
}

func oraichainRequest() models.TransferRequest {
	return models.TransferRequest{
		SourcePort:    models.SourcePort,
		SourceChannel: "channel-4",
		Denom:         "uusdx",
		Amount:        big.NewInt(20000),
		Sender:        sender,
		Receiver:      "oraib1qpuundpvtymcyq3cmcty3udf2zy0m509e5jykd",
		TimeoutHeight: models.Height{RevisionNumber: 2, RevisionHeight: 10000000000},
		Memo:          "oraib0x7eaf74eA145a5A81764EC2ce5fb40cd06DFDD18f",
	}
}

func TestPackTransfer(t *testing.T) {
	tr, err := Bind(PrecompileAddress, nil)
	assert.Nil(t, tr)
	assert.True(t, ErrContractBinding.Is(err))

	tr = &Transferer{address: PrecompileAddress}
	req := oraichainRequest()
	data, err := tr.Pack(req)
	require.NoError(t, err)

	method := ABI().Methods[MethodTransfer]
	assert.Equal(t, method.ID, data[:4])

	args, err := method.Inputs.Unpack(data[4:])
	require.NoError(t, err)
	require.Len(t, args, 9)
	assert.Equal(t, "transfer", args[0])
	assert.Equal(t, "channel-4", args[1])
	assert.Equal(t, "uusdx", args[2])
	assert.Equal(t, 0, big.NewInt(20000).Cmp(args[3].(*big.Int)))
	assert.Equal(t, sender, args[4])
	assert.Equal(t, req.Receiver, args[5])
	assert.Equal(t, uint64(0), args[7])
	assert.Equal(t, req.Memo, args[8])
}

func transferLog(t *testing.T, req models.TransferRequest) *types.Log {
	t.Helper()
	ev := ABI().Events[EventIBCTransfer]
	data, err := ev.Inputs.NonIndexed().Pack(req.SourcePort, req.SourceChannel, req.Denom, req.Amount, req.Memo)
	require.NoError(t, err)
	return &types.Log{
		Address: PrecompileAddress,
		Topics: []common.Hash{
			ev.ID,
			common.BytesToHash(req.Sender.Bytes()),
			crypto.Keccak256Hash([]byte(req.Receiver)),
		},
		Data: data,
	}
}

func TestFindIBCTransfer(t *testing.T) {
	tr, err := Bind(PrecompileAddress, nopBackend{})
	require.NoError(t, err)

	req := oraichainRequest()
	other := transferLog(t, req)
	other.Address = common.HexToAddress("0x0000000000000000000000000000000000000801")

	receipt := &types.Receipt{Logs: []*types.Log{other, transferLog(t, req)}}
	ev, err := tr.FindIBCTransfer(receipt)
	require.NoError(t, err)
	assert.Equal(t, sender, ev.Sender)
	assert.Equal(t, crypto.Keccak256Hash([]byte(req.Receiver)), ev.Receiver)
	assert.Equal(t, "channel-4", ev.SourceChannel)
	assert.Equal(t, "uusdx", ev.Denom)
	assert.Equal(t, 0, req.Amount.Cmp(ev.Amount))
	assert.Equal(t, req.Memo, ev.Memo)
	assert.Equal(t, PrecompileAddress, ev.Raw.Address)

	_, err = tr.FindIBCTransfer(&types.Receipt{Logs: []*types.Log{other}})
	assert.True(t, errors.ErrNotFound.Is(err))
}
