package main

import (
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ossyrian/pkparse/internal/manifest"
	"github.com/ossyrian/pkparse/internal/pkzip"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the entries of an archive's central directory",
	Args:  cobra.NoArgs,
	RunE:  list,
}

func init() {
	listCmd.Flags().StringP("output", "o", "", "path to write a JSON manifest of the archive")
}

func list(cmd *cobra.Command, args []string) error {
	archive, closer, err := openArchive(cmd)
	if err != nil {
		return err
	}
	defer closer.Close()

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tMETHOD\tSIZE\tSTORED\tMODIFIED\tCRC32\tFLAGS")
	for _, rec := range archive.Records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%08x\t%s\n",
			rec.Name,
			pkzip.MethodName(rec.Method),
			humanize.IBytes(uint64(rec.UncompressedSize)),
			humanize.IBytes(uint64(rec.CompressedSize)),
			rec.Modified().Format(time.DateTime),
			rec.CRC32,
			flagString(rec),
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if cfg.OutputPath == "" {
		return nil
	}
	if cfg.DryRun {
		slog.Info("dry run, not writing manifest", "output", cfg.OutputPath)
		return nil
	}

	f, err := os.Create(cfg.OutputPath)
	if err != nil {
		return fmt.Errorf("failed to create manifest file: %w", err)
	}
	defer f.Close()

	if err := manifest.New(cfg.InputFile, archive).Write(f); err != nil {
		return err
	}

	slog.Info("wrote manifest",
		"output", cfg.OutputPath,
		"entries", len(archive.Records),
	)

	return f.Close()
}

func flagString(rec pkzip.CentralDirectoryRecord) string {
	s := ""
	if rec.IsEncrypted() {
		s += "E"
	}
	if rec.HasDataDescriptor() {
		s += "D"
	}
	if rec.Flags&pkzip.FlagUTF8 != 0 {
		s += "U"
	}
	if s == "" {
		return "-"
	}
	return s
}
