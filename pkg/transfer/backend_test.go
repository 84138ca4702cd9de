package transfer

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/event"
	"github.com/exachain/ibc-transfer/pkg/ics20"
	"github.com/exachain/ibc-transfer/pkg/models"
	"github.com/iov-one/weave/errors"
)

var errRevert = errors.Register(3900, "execution reverted: insufficient funds")

// transferCall is a decoded precompile transfer.
type transferCall struct {
	TxHash           common.Hash
	TxSigner         common.Address
	SourcePort       string
	SourceChannel    string
	Denom            string
	Amount           *big.Int
	Sender           common.Address
	Receiver         string
	TimeoutHeight    models.Height
	TimeoutTimestamp uint64
	Memo             string
}

// precompileBackend simulates a chain hosting the ICS-20 precompile. Every
// accepted transaction is mined into its own block right away unless
// withholdReceipts is set.
type precompileBackend struct {
	mu sync.Mutex

	chainID          *big.Int
	balances         map[common.Address]*big.Int
	withholdReceipts bool

	block    uint64
	nonces   map[common.Address]uint64
	receipts map[common.Hash]*types.Receipt
	calls    []transferCall
	// requests counts every backend method invocation.
	requests int
}

func newPrecompileBackend(chainID int64) *precompileBackend {
	return &precompileBackend{
		chainID:  big.NewInt(chainID),
		balances: make(map[common.Address]*big.Int),
		block:    1,
		nonces:   make(map[common.Address]uint64),
		receipts: make(map[common.Hash]*types.Receipt),
	}
}

func (b *precompileBackend) fund(addr common.Address, amount int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.balances[addr] = big.NewInt(amount)
}

func (b *precompileBackend) balance(addr common.Address) *big.Int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if v, ok := b.balances[addr]; ok {
		return new(big.Int).Set(v)
	}
	return new(big.Int)
}

func (b *precompileBackend) transfers() []transferCall {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]transferCall(nil), b.calls...)
}

func (b *precompileBackend) requestCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.requests
}

func (b *precompileBackend) touch() {
	b.mu.Lock()
	b.requests++
	b.mu.Unlock()
}

func decodeTransfer(data []byte) (*transferCall, error) {
	if len(data) < 4 {
		return nil, errors.Wrap(errors.ErrNotFound, "no selector")
	}
	parsed := ics20.ABI()
	method, err := parsed.MethodById(data[:4])
	if err != nil {
		return nil, err
	}
	vals, err := method.Inputs.Unpack(data[4:])
	if err != nil {
		return nil, err
	}
	return &transferCall{
		SourcePort:       vals[0].(string),
		SourceChannel:    vals[1].(string),
		Denom:            vals[2].(string),
		Amount:           vals[3].(*big.Int),
		Sender:           vals[4].(common.Address),
		Receiver:         vals[5].(string),
		TimeoutHeight:    *abi.ConvertType(vals[6], new(models.Height)).(*models.Height),
		TimeoutTimestamp: vals[7].(uint64),
		Memo:             vals[8].(string),
	}, nil
}

func (b *precompileBackend) CodeAt(ctx context.Context, contract common.Address, blockNumber *big.Int) ([]byte, error) {
	b.touch()
	return nil, nil
}

func (b *precompileBackend) CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	b.touch()
	return nil, nil
}

func (b *precompileBackend) PendingCodeAt(ctx context.Context, account common.Address) ([]byte, error) {
	b.touch()
	return nil, nil
}

func (b *precompileBackend) PendingCallContract(ctx context.Context, call ethereum.CallMsg) ([]byte, error) {
	b.touch()
	return nil, nil
}

func (b *precompileBackend) HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error) {
	b.touch()
	b.mu.Lock()
	defer b.mu.Unlock()
	return &types.Header{
		Number:  new(big.Int).SetUint64(b.block),
		BaseFee: big.NewInt(1),
	}, nil
}

func (b *precompileBackend) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	b.touch()
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.nonces[account], nil
}

func (b *precompileBackend) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	b.touch()
	return big.NewInt(2), nil
}

func (b *precompileBackend) SuggestGasTipCap(ctx context.Context) (*big.Int, error) {
	b.touch()
	return big.NewInt(1), nil
}

func (b *precompileBackend) EstimateGas(ctx context.Context, call ethereum.CallMsg) (uint64, error) {
	b.touch()
	if call.To == nil || *call.To != ics20.PrecompileAddress {
		return 0, errors.Wrap(errors.ErrNotFound, "no precompile at address")
	}
	tc, err := decodeTransfer(call.Data)
	if err != nil {
		return 0, err
	}
	if b.balance(call.From).Cmp(tc.Amount) < 0 {
		return 0, errRevert
	}
	return 100000, nil
}

func (b *precompileBackend) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	b.touch()
	from, err := types.Sender(types.LatestSignerForChainID(b.chainID), tx)
	if err != nil {
		return err
	}
	tc, err := decodeTransfer(tx.Data())
	if err != nil {
		return err
	}
	tc.TxHash = tx.Hash()
	tc.TxSigner = from

	b.mu.Lock()
	defer b.mu.Unlock()

	b.nonces[from]++
	b.calls = append(b.calls, *tc)
	if b.withholdReceipts {
		return nil
	}

	b.block++
	receipt := &types.Receipt{
		Type:        tx.Type(),
		TxHash:      tx.Hash(),
		BlockNumber: new(big.Int).SetUint64(b.block),
		GasUsed:     50000,
		Status:      types.ReceiptStatusFailed,
		Logs:        []*types.Log{},
	}
	balance, ok := b.balances[tc.Sender]
	if ok && tc.Sender == from && balance.Cmp(tc.Amount) >= 0 {
		balance.Sub(balance, tc.Amount)
		receipt.Status = types.ReceiptStatusSuccessful
		receipt.Logs = append(receipt.Logs, ibcTransferLog(*tc, receipt))
	}
	b.receipts[tx.Hash()] = receipt
	return nil
}

func ibcTransferLog(tc transferCall, receipt *types.Receipt) *types.Log {
	ev := ics20.ABI().Events[ics20.EventIBCTransfer]
	data, err := ev.Inputs.NonIndexed().Pack(tc.SourcePort, tc.SourceChannel, tc.Denom, tc.Amount, tc.Memo)
	if err != nil {
		panic(err)
	}
	return &types.Log{
		Address: ics20.PrecompileAddress,
		Topics: []common.Hash{
			ev.ID,
			common.BytesToHash(tc.Sender.Bytes()),
			crypto.Keccak256Hash([]byte(tc.Receiver)),
		},
		Data:        data,
		BlockNumber: receipt.BlockNumber.Uint64(),
		TxHash:      receipt.TxHash,
	}
}

func (b *precompileBackend) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	b.touch()
	b.mu.Lock()
	defer b.mu.Unlock()
	if r, ok := b.receipts[txHash]; ok {
		return r, nil
	}
	return nil, ethereum.NotFound
}

func (b *precompileBackend) BlockNumber(ctx context.Context) (uint64, error) {
	b.touch()
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.block, nil
}

// mine appends an empty block.
func (b *precompileBackend) mine() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.block++
}

func (b *precompileBackend) FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error) {
	b.touch()
	return nil, nil
}

func (b *precompileBackend) SubscribeFilterLogs(ctx context.Context, q ethereum.FilterQuery, ch chan<- types.Log) (ethereum.Subscription, error) {
	b.touch()
	return event.NewSubscription(func(quit <-chan struct{}) error {
		<-quit
		return nil
	}), nil
}
