package main

import (
	"fmt"

	"github.com/JonMunkholm/bubblemigrate/internal/formatter"
	"github.com/spf13/cobra"
)

func newFormatCmd(a *app) *cobra.Command {
	var (
		outDir  string
		workers int
	)

	cmd := &cobra.Command{
		Use:   "format <file>...",
		Short: "Reformat exported tables for import",
		Long: `Reformat CSV or Excel exports. A CSV file's table kind is read from its
name; each worksheet of a workbook is formatted as the kind it is named
after. Output is written as <name>_formatted next to the input.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.runContext(cmd)
			defer cancel()

			if outDir == "" {
				outDir = a.cfg.Format.OutputDir
			}

			f := formatter.New(a.boolTokens())
			results, errs, err := f.FormatFiles(ctx, args, outDir, workers)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			failed := 0
			for i, path := range args {
				if errs[i] != nil {
					failed++
					fmt.Fprintf(out, "FAILED  %s: %v\n", path, errs[i])
					continue
				}
				r := results[i]
				for _, s := range r.Sheets {
					if s.Err != nil {
						fmt.Fprintf(out, "SKIPPED %s [%s]: %v\n", path, s.Name, s.Err)
						continue
					}
					fmt.Fprintf(out, "OK      %s [%s] %d rows\n", path, s.Kind, s.Rows)
				}
				fmt.Fprintf(out, "        -> %s\n", r.Output)
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d files failed: %w", failed, len(args), firstErr(errs))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Output directory (default: next to each input)")
	cmd.Flags().IntVarP(&workers, "workers", "w", 4, "Files formatted in parallel")
	return cmd
}

func firstErr(errs []error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
