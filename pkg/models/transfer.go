package models

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// SourcePort is the only port the ICS-20 precompile routes transfers through.
const SourcePort = "transfer"

// Height is an IBC client height. A zero RevisionHeight disables the height
// timeout on the destination chain.
type Height struct {
	RevisionNumber uint64 `json:"revision_number" yaml:"revision_number"`
	RevisionHeight uint64 `json:"revision_height" yaml:"revision_height"`
}

// TransferRequest holds every argument of a single precompile transfer call.
// It is built right before submission and never persisted as such.
type TransferRequest struct {
	SourcePort    string
	SourceChannel string
	Denom         string
	// Amount is expressed in the smallest unit of Denom.
	Amount           *big.Int
	Sender           common.Address
	Receiver         string
	TimeoutHeight    Height
	TimeoutTimestamp uint64
	Memo             string
}
