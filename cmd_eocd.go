package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var eocdCmd = &cobra.Command{
	Use:   "eocd",
	Short: "Print the end of central directory record of an archive",
	Args:  cobra.NoArgs,
	RunE:  eocd,
}

func eocd(cmd *cobra.Command, args []string) error {
	archive, closer, err := openArchive(cmd)
	if err != nil {
		return err
	}
	defer closer.Close()

	r := archive.EOCD
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "offset:           0x%x\n", r.Offset)
	fmt.Fprintf(out, "disk number:      %d\n", r.DiskNumber)
	fmt.Fprintf(out, "cd disk:          %d\n", r.CDDisk)
	fmt.Fprintf(out, "records on disk:  %d\n", r.CDCountOnDisk)
	fmt.Fprintf(out, "records:          %d\n", r.CDCount)
	fmt.Fprintf(out, "cd size:          %s\n", humanize.IBytes(uint64(r.CDSize)))
	fmt.Fprintf(out, "cd offset:        0x%x\n", r.CDOffset)
	fmt.Fprintf(out, "comment:          %q\n", r.Comment)

	return nil
}
