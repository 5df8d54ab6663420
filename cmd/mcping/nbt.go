package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gstoney/mcproto/nbt"
)

func nbtCmd() *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "nbt FILE",
		Short: "Print an NBT file as SNBT",
		Long:  `Decode an NBT file, gzip or zlib compressed or not, and print it as SNBT.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			root, compression, err := nbt.ReadCompressed(f)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			out := cmd.OutOrStdout()
			if !quiet {
				fmt.Fprintf(out, "# %s, root %q (%s)\n", compression, root.Name, root.Tag.Type())
			}
			fmt.Fprintln(out, nbt.Stringify(root.Tag))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "omit the header line")

	return cmd
}
