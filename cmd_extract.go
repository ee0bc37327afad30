package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/ossyrian/pkparse/internal/pkzip"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Write the stored payload of one entry",
	Long: `Write the payload of one entry exactly as stored in the archive.

Nothing is decompressed or decrypted. Stored entries come out as the original
file; any other compression method is written as its raw compressed stream.

Entry names are read as IBM Code Page 437 even when the archive marks them as
UTF-8, so --entry must match that reading for names outside ASCII. Use
"pkparse list" to see the names as decoded.`,
	Args: cobra.NoArgs,
	RunE: extract,
}

func init() {
	extractCmd.Flags().StringP("entry", "e", "", "name of the entry to extract (required, or PKPARSE_ENTRY)")
	extractCmd.Flags().StringP("output", "o", ".", "directory to extract into")
	extractCmd.Flags().Bool("raw", false, "write encrypted entries as stored instead of refusing")
}

func extract(cmd *cobra.Command, args []string) error {
	if cfg.Entry == "" {
		return fmt.Errorf("an entry name is required (--entry or PKPARSE_ENTRY)")
	}

	archive, closer, err := openArchive(cmd)
	if err != nil {
		return err
	}
	defer closer.Close()

	rec, ok := archive.Lookup(cfg.Entry)
	if !ok {
		return fmt.Errorf("entry %q not found in %s", cfg.Entry, cfg.InputFile)
	}

	logger := slog.With("entry", rec.Name)

	if rec.IsEncrypted() && !cfg.Raw {
		return fmt.Errorf("entry %q is encrypted; pass --raw to write it as stored", rec.Name)
	}
	if !rec.IsStored() {
		logger.Warn("entry is compressed, writing the compressed stream as-is",
			"method", pkzip.MethodName(rec.Method),
			"method_id", rec.Method,
		)
	}

	if !filepath.IsLocal(rec.Name) {
		return fmt.Errorf("entry name %q escapes the output directory", rec.Name)
	}
	dst := filepath.Join(cfg.OutputPath, filepath.FromSlash(rec.Name))

	if strings.HasSuffix(rec.Name, "/") {
		if cfg.DryRun {
			return nil
		}
		logger.Info("creating directory entry", "output", dst)
		return os.MkdirAll(dst, 0o755)
	}

	if cfg.DryRun {
		logger.Info("dry run, not extracting",
			"output", dst,
			"size", humanize.IBytes(uint64(rec.CompressedSize)),
		)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	bar := progressbar.DefaultBytes(int64(rec.CompressedSize), "extracting "+rec.Name)
	n, err := archive.ExtractTo(rec, io.MultiWriter(f, bar))
	_ = bar.Finish()
	if err != nil {
		_ = f.Close()
		if rmErr := os.Remove(dst); rmErr != nil {
			logger.Warn("could not remove partial output", "output", dst, "error", rmErr)
		}
		return err
	}

	logger.Info("extracted entry",
		"output", dst,
		"size", humanize.IBytes(uint64(n)),
	)

	return f.Close()
}
