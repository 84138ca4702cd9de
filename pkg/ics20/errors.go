package ics20

import (
	"github.com/iov-one/weave/errors"
)

var (
	// ErrContractBinding is returned when the precompile address cannot be
	// used through the ICS20I interface. A missing interface usually
	// surfaces later as a low level call failure wrapped with this error.
	ErrContractBinding = errors.Register(3001, "contract binding")
)
