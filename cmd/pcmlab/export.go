package main

import (
	"fmt"

	"github.com/cwbudde/pcmlab/export"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newExportCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export <path>",
		Short: "Write the signal to a WAV, CSV, NPY or Parquet file",
		Long: `export writes the signal of a run to disk. Expert runs write the windowed
and filtered sine after the moving-average smoothing; the other variants
write the sampled signal. The format follows the file extension unless
--format is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			f, err := exportFormat(format, path)
			if err != nil {
				return err
			}

			if _, err := a.run(); err != nil {
				return err
			}

			sig, ok, err := a.session.ExportSnapshot()
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("export: no signal to write")
			}

			if err := export.WriteFile(path, f, sig, a.cfg.ExportOptions()...); err != nil {
				return err
			}

			a.logger.Info("signal exported",
				zap.String("path", path),
				zap.Stringer("format", f),
				zap.Int("samples", sig.Len()),
			)
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "wrote %d samples to %s (%s)\n", sig.Len(), path, f)
			return err
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&format, "format", "", "file format (wav, wav16, csv, npy, npy.zst, parquet)")
	fs.Float64("normalize", 0, "scale to this peak before writing, 0 keeps the signal")
	fs.String("parquet-compression", "snappy", "parquet codec (snappy, zstd, gzip, none)")

	cobra.CheckErr(bindFlags(a.v, fs, map[string]string{
		"normalize":           "export.normalize",
		"parquet-compression": "export.parquet_compression",
	}))

	return cmd
}

func exportFormat(name, path string) (export.Format, error) {
	if name != "" {
		return export.ParseFormat(name)
	}
	return export.FormatFromPath(path)
}
