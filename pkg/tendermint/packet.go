package tendermint

import (
	"context"
	"fmt"
	"strings"
)

// Packet describes an ICS-20 packet received on the destination chain.
type Packet struct {
	TxHash   string
	Receiver string
	Denom    string
	Amount   string
	Success  bool
}

// WaitForPacket blocks until the destination chain processes a transfer
// packet for receiver. When denom is not empty only packets whose denom
// trace ends with it are accepted.
func (c *Client) WaitForPacket(ctx context.Context, receiver, denom string) (*Packet, error) {
	query := fmt.Sprintf("tm.event='Tx' AND fungible_token_packet.receiver='%s'", receiver)

	var found *Packet
	err := c.Subscribe(ctx, query, func(ev Event) (bool, error) {
		p := packetFromEvent(ev)
		if p.Receiver != receiver {
			return false, nil
		}
		if denom != "" && p.Denom != denom && !strings.HasSuffix(p.Denom, "/"+denom) {
			return false, nil
		}
		found = p
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

func packetFromEvent(ev Event) *Packet {
	first := func(key string) string {
		if vals := ev.Attributes[key]; len(vals) > 0 {
			return vals[0]
		}
		return ""
	}
	return &Packet{
		TxHash:   first("tx.hash"),
		Receiver: first("fungible_token_packet.receiver"),
		Denom:    first("fungible_token_packet.denom"),
		Amount:   first("fungible_token_packet.amount"),
		Success:  first("fungible_token_packet.success") == "true",
	}
}
