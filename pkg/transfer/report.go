package transfer

import (
	"encoding/json"
	"fmt"

	"github.com/iov-one/weave/errors"
)

// Report writes the human readable summary of a confirmed transfer followed
// by the raw receipt.
func (inv *Invoker) Report(res *Result, p Params) error {
	_, err := fmt.Fprintf(inv.out, "Transferred %s %s via IBC to %s\n",
		FormatUnits(res.Request.Amount, p.Decimals), p.Symbol, res.Request.Receiver)
	if err != nil {
		return errors.Wrap(err, "write summary")
	}
	raw, err := json.MarshalIndent(res.Receipt, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal receipt")
	}
	_, err = fmt.Fprintf(inv.out, "The transaction details are\n%s\n", raw)
	return errors.Wrap(err, "write receipt")
}
