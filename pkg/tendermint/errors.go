package tendermint

import (
	"github.com/iov-one/weave/errors"
)

var (
	// Watcher errors start from 2100

	ErrFailedResponse = errors.Register(2100, "failed response")
	ErrConnection     = errors.Register(2101, "connection")
)
