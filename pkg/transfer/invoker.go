package transfer

import (
	"context"
	stderrors "errors"
	"io"
	"math/big"
	"os"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/exachain/ibc-transfer/pkg/ics20"
	"github.com/exachain/ibc-transfer/pkg/models"
	"github.com/iov-one/weave/errors"
	"go.uber.org/zap"
)

// Backend is the part of an EVM client the invoker talks to.
// *ethclient.Client satisfies it.
type Backend interface {
	bind.ContractBackend
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	BlockNumber(ctx context.Context) (uint64, error)
}

// Journal records submitted transfers. *store.Store satisfies it.
type Journal interface {
	InsertTransfer(ctx context.Context, t models.Transfer) error
	UpdateTransferStatus(ctx context.Context, hash string, status models.TransferStatus, blockNumber, gasUsed int64) error
}

// Invoker submits a single ICS-20 transfer through the precompile and waits
// for it to be confirmed. It never retries: every failure is returned to the
// caller as is.
type Invoker struct {
	backend Backend
	signers Signers
	address common.Address
	opts    Options
	journal Journal
	logger  *zap.Logger
	out     io.Writer
}

type Option func(*Invoker)

func WithJournal(j Journal) Option {
	return func(inv *Invoker) { inv.journal = j }
}

func WithLogger(l *zap.Logger) Option {
	return func(inv *Invoker) { inv.logger = l }
}

// WithOutput sets where Report writes the transfer summary. Defaults to
// stdout.
func WithOutput(w io.Writer) Option {
	return func(inv *Invoker) { inv.out = w }
}

// WithPrecompileAddress binds the ICS-20 interface to a non standard address.
func WithPrecompileAddress(addr common.Address) Option {
	return func(inv *Invoker) { inv.address = addr }
}

func NewInvoker(backend Backend, signers Signers, opts Options, options ...Option) *Invoker {
	inv := &Invoker{
		backend: backend,
		signers: signers,
		address: ics20.PrecompileAddress,
		opts:    opts.withDefaults(),
		logger:  zap.NewNop(),
		out:     os.Stdout,
	}
	for _, o := range options {
		o(inv)
	}
	return inv
}

// Result describes a confirmed transfer.
type Result struct {
	Request models.TransferRequest
	Tx      *types.Transaction
	Receipt *types.Receipt
	// Event is nil when the receipt carries no IBCTransfer log.
	Event *ics20.IBCTransferEvent
}

// Run invokes the transfer and reports it on success.
func (inv *Invoker) Run(ctx context.Context, p Params) error {
	res, err := inv.Invoke(ctx, p)
	if err != nil {
		return err
	}
	return inv.Report(res, p)
}

// Invoke performs exactly one transfer: resolve the signer, bind the
// precompile, submit, then wait for the configured number of confirmations.
func (inv *Invoker) Invoke(ctx context.Context, p Params) (*Result, error) {
	signer, err := inv.signers.First()
	if err != nil {
		return nil, err
	}
	inv.logger.Info("signer resolved", zap.String("signer", signer.From.Hex()))

	contract, err := ics20.Bind(inv.address, inv.backend)
	if err != nil {
		return nil, err
	}

	req := p.Request(signer.From)
	signer.Context = ctx
	if inv.opts.GasPrice != nil {
		signer.GasPrice = new(big.Int).Set(inv.opts.GasPrice)
	}
	if signer.GasLimit, err = inv.gasLimit(ctx, contract, req); err != nil {
		return nil, err
	}

	tx, err := contract.Transfer(signer, req)
	if err != nil {
		if isRevert(err) {
			return nil, errors.Wrap(ErrTransactionReverted, err.Error())
		}
		return nil, errors.Wrap(ErrContractBinding, err.Error())
	}
	log := inv.logger.With(zap.String("tx", tx.Hash().Hex()))
	log.Info("transfer submitted",
		zap.String("channel", req.SourceChannel),
		zap.String("denom", req.Denom),
		zap.String("amount", req.Amount.String()),
		zap.String("receiver", req.Receiver),
		zap.Uint64("gas", tx.Gas()))
	inv.record(ctx, p, req, tx)

	receipt, err := inv.waitConfirmed(ctx, tx)
	if err != nil {
		inv.updateStatus(tx.Hash(), models.StatusTimeout, nil)
		return nil, err
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		inv.updateStatus(tx.Hash(), models.StatusReverted, receipt)
		return nil, errors.Wrapf(ErrTransactionReverted, "tx %s in block %s", tx.Hash().Hex(), receipt.BlockNumber)
	}
	inv.updateStatus(tx.Hash(), models.StatusConfirmed, receipt)
	log.Info("transfer confirmed",
		zap.Stringer("block", receipt.BlockNumber),
		zap.Uint64("gas_used", receipt.GasUsed))

	res := &Result{Request: req, Tx: tx, Receipt: receipt}
	if ev, err := contract.FindIBCTransfer(receipt); err == nil {
		res.Event = ev
	} else {
		log.Debug("no IBCTransfer event in receipt", zap.Error(err))
	}
	return res, nil
}

// gasLimit returns the configured gas or an estimate scaled by the gas
// multiplier. The binding is never left to estimate on its own because it
// refuses addresses without code, which is every precompile.
func (inv *Invoker) gasLimit(ctx context.Context, contract *ics20.Transferer, req models.TransferRequest) (uint64, error) {
	if inv.opts.Gas > 0 {
		return inv.opts.Gas, nil
	}
	data, err := contract.Pack(req)
	if err != nil {
		return 0, err
	}
	to := contract.Address()
	estimate, err := inv.backend.EstimateGas(ctx, ethereum.CallMsg{
		From: req.Sender,
		To:   &to,
		Data: data,
	})
	if err != nil {
		if isRevert(err) {
			return 0, errors.Wrap(ErrTransactionReverted, err.Error())
		}
		return 0, errors.Wrap(ErrContractBinding, err.Error())
	}
	return uint64(float64(estimate) * inv.opts.GasMultiplier), nil
}

// waitConfirmed polls for the receipt of tx until it is buried under the
// configured number of confirmations. Lookup failures are treated as not
// found yet.
func (inv *Invoker) waitConfirmed(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	ctx, cancel := context.WithTimeout(ctx, inv.opts.Timeout)
	defer cancel()

	ticker := time.NewTicker(inv.opts.PollInterval)
	defer ticker.Stop()

	for {
		receipt, err := inv.backend.TransactionReceipt(ctx, tx.Hash())
		switch {
		case err == nil && receipt != nil:
			ok, err := inv.confirmed(ctx, receipt)
			if err != nil {
				inv.logger.Debug("block number lookup failed", zap.Error(err))
			} else if ok {
				return receipt, nil
			}
		case err != nil && err != ethereum.NotFound:
			inv.logger.Debug("receipt lookup failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return nil, errors.Wrapf(ErrConfirmationTimeout, "tx %s not confirmed within %s: %s",
				tx.Hash().Hex(), inv.opts.Timeout, ctx.Err())
		case <-ticker.C:
		}
	}
}

func (inv *Invoker) confirmed(ctx context.Context, receipt *types.Receipt) (bool, error) {
	if inv.opts.Confirmations <= 1 {
		return true, nil
	}
	head, err := inv.backend.BlockNumber(ctx)
	if err != nil {
		return false, err
	}
	mined := receipt.BlockNumber.Uint64()
	return head >= mined && head-mined+1 >= inv.opts.Confirmations, nil
}

func (inv *Invoker) record(ctx context.Context, p Params, req models.TransferRequest, tx *types.Transaction) {
	if inv.journal == nil {
		return
	}
	err := inv.journal.InsertTransfer(ctx, models.Transfer{
		Hash:      tx.Hash().Hex(),
		Profile:   p.Profile,
		ChainID:   inv.opts.ChainID,
		Sender:    req.Sender.Hex(),
		Receiver:  req.Receiver,
		Channel:   req.SourceChannel,
		Denom:     req.Denom,
		Amount:    req.Amount.String(),
		Memo:      req.Memo,
		Status:    models.StatusSubmitted,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		inv.logger.Warn("cannot journal transfer", zap.String("tx", tx.Hash().Hex()), zap.Error(err))
	}
}

func (inv *Invoker) updateStatus(hash common.Hash, status models.TransferStatus, receipt *types.Receipt) {
	if inv.journal == nil {
		return
	}
	var block, gas int64
	if receipt != nil {
		block = receipt.BlockNumber.Int64()
		gas = int64(receipt.GasUsed)
	}
	// The caller context may be the one that just expired.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := inv.journal.UpdateTransferStatus(ctx, hash.Hex(), status, block, gas); err != nil {
		inv.logger.Warn("cannot update journaled transfer", zap.String("tx", hash.Hex()), zap.Error(err))
	}
}

func isRevert(err error) bool {
	var de rpc.DataError
	if stderrors.As(err, &de) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "execution reverted")
}
