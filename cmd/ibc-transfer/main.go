package main

import (
	"fmt"
	"os"
)

func main() {
	f := &flags{}
	if err := newRootCmd(f).Execute(); err != nil {
		if !f.logged {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
