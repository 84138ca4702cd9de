package main

import (
	"fmt"
	"sort"

	"github.com/exachain/ibc-transfer/pkg/config"
	"github.com/spf13/cobra"
)

func newProfilesCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List the available network and transfer profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := config.LoadFile(f.configPath)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			fmt.Fprintln(out, "networks:")
			for _, name := range sortedKeys(conf.Networks) {
				n := conf.Networks[name]
				fmt.Fprintf(out, "  %-12s chain %-10d %s\n", name, n.ChainID, n.URL)
			}
			fmt.Fprintln(out, "transfers:")
			for _, name := range sortedKeys(conf.Transfers) {
				t := conf.Transfers[name]
				fmt.Fprintf(out, "  %-12s %-10s %s -> %s\n", name, t.Channel, t.Denom, t.Receiver)
			}
			return nil
		},
	}
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
