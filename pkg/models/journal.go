package models

import (
	"time"
)

type TransferStatus string

const (
	StatusSubmitted TransferStatus = "submitted"
	StatusConfirmed TransferStatus = "confirmed"
	StatusReverted  TransferStatus = "reverted"
	StatusTimeout   TransferStatus = "timeout"
	StatusRelayed   TransferStatus = "relayed"
)

// Transfer is a journal entry describing one submitted precompile call.
type Transfer struct {
	Hash        string         `json:"hash"`
	Profile     string         `json:"profile"`
	ChainID     int64          `json:"chain_id"`
	Sender      string         `json:"sender"`
	Receiver    string         `json:"receiver"`
	Channel     string         `json:"channel"`
	Denom       string         `json:"denom"`
	Amount      string         `json:"amount"`
	Memo        string         `json:"memo,omitempty"`
	Status      TransferStatus `json:"status"`
	BlockNumber int64          `json:"block_number,omitempty"`
	GasUsed     int64          `json:"gas_used,omitempty"`
	DestTxHash  string         `json:"dest_tx_hash,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}
