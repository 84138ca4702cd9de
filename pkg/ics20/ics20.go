package ics20

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/exachain/ibc-transfer/pkg/models"
	"github.com/iov-one/weave/errors"
)

// PrecompileAddress is where the chain runtime exposes the ICS-20 transfer
// precompile.
var PrecompileAddress = common.HexToAddress("0x0000000000000000000000000000000000000802")

const (
	MethodTransfer   = "transfer"
	EventIBCTransfer = "IBCTransfer"
)

var parsedABI abi.ABI

func init() {
	var err error
	parsedABI, err = abi.JSON(strings.NewReader(ICS20ABI))
	if err != nil {
		panic(err)
	}
}

// ABI returns the parsed precompile interface.
func ABI() abi.ABI {
	return parsedABI
}

// Transferer is a binding of the ICS20I interface to an address. Nothing
// checks that the address actually serves that interface: a precompile has no
// bytecode to inspect, so a wrong address only shows up when a call fails.
type Transferer struct {
	address  common.Address
	contract *bind.BoundContract
}

func Bind(address common.Address, backend bind.ContractBackend) (*Transferer, error) {
	if backend == nil {
		return nil, errors.Wrap(ErrContractBinding, "nil backend")
	}
	c := bind.NewBoundContract(address, parsedABI, backend, backend, backend)
	return &Transferer{address: address, contract: c}, nil
}

func (t *Transferer) Address() common.Address {
	return t.address
}

// Pack returns the calldata of a transfer call for the given request.
func (t *Transferer) Pack(req models.TransferRequest) ([]byte, error) {
	data, err := parsedABI.Pack(MethodTransfer, transferArgs(req)...)
	if err != nil {
		return nil, errors.Wrap(ErrContractBinding, err.Error())
	}
	return data, nil
}

// Transfer signs and broadcasts a transfer call. It does not wait for the
// transaction to be included.
func (t *Transferer) Transfer(opts *bind.TransactOpts, req models.TransferRequest) (*types.Transaction, error) {
	return t.contract.Transact(opts, MethodTransfer, transferArgs(req)...)
}

func transferArgs(req models.TransferRequest) []interface{} {
	return []interface{}{
		req.SourcePort,
		req.SourceChannel,
		req.Denom,
		req.Amount,
		req.Sender,
		req.Receiver,
		req.TimeoutHeight,
		req.TimeoutTimestamp,
		req.Memo,
	}
}

// IBCTransferEvent is emitted by the precompile for every accepted transfer.
// Receiver is indexed as a string, so only its keccak hash is available.
type IBCTransferEvent struct {
	Sender        common.Address
	Receiver      common.Hash
	SourcePort    string
	SourceChannel string
	Denom         string
	Amount        *big.Int
	Memo          string
	Raw           types.Log
}

// ParseIBCTransfer decodes an IBCTransfer log.
func (t *Transferer) ParseIBCTransfer(log types.Log) (*IBCTransferEvent, error) {
	event := new(IBCTransferEvent)
	if err := t.contract.UnpackLog(event, EventIBCTransfer, log); err != nil {
		return nil, errors.Wrap(err, "unpack IBCTransfer")
	}
	event.Raw = log
	return event, nil
}

// FindIBCTransfer returns the first IBCTransfer event of the receipt emitted
// by the bound address. It returns ErrNotFound when there is none.
func (t *Transferer) FindIBCTransfer(receipt *types.Receipt) (*IBCTransferEvent, error) {
	id := parsedABI.Events[EventIBCTransfer].ID
	for _, l := range receipt.Logs {
		if l == nil || l.Address != t.address || len(l.Topics) == 0 || l.Topics[0] != id {
			continue
		}
		return t.ParseIBCTransfer(*l)
	}
	return nil, errors.Wrap(errors.ErrNotFound, "no IBCTransfer event")
}
