package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/JonMunkholm/bubblemigrate/internal/core"
	"github.com/JonMunkholm/bubblemigrate/internal/formatter"
	"github.com/JonMunkholm/bubblemigrate/internal/ledger"
	"github.com/JonMunkholm/bubblemigrate/internal/links"
	"github.com/JonMunkholm/bubblemigrate/internal/logging"
	"github.com/JonMunkholm/bubblemigrate/internal/sheet"
	"github.com/go-resty/resty/v2"
	"github.com/spf13/cobra"
)

func newRewriteCmd(a *app) *cobra.Command {
	var base, outDir string

	cmd := &cobra.Command{
		Use:   "rewrite <csv>",
		Short: "Point bubble.io links at the mirror bucket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if base == "" {
				base = a.cfg.Storage.RewriteBaseURL
			}

			s, err := sheet.ReadCSVFile(args[0])
			if err != nil {
				return err
			}
			if len(links.FileColumns(s)) == 0 {
				return fmt.Errorf("%s: %w", args[0], links.ErrNoFileColumns)
			}

			converted := links.Rewrite(s, base)

			out, err := outputFile(args[0], outDir, "converted")
			if err != nil {
				return err
			}
			if err := sheet.WriteCSVFile(out, s); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%d links rewritten -> %s\n", converted, out)
			return nil
		},
	}

	cmd.Flags().StringVar(&base, "base", "", "Mirror base URL (default: STORAGE_REWRITE_BASE_URL)")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Output directory (default: next to the input)")
	return cmd
}

func newDownloadCmd(a *app) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "download <csv>",
		Short: "Download every linked bubble.io file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.runContext(cmd)
			defer cancel()

			if dir == "" {
				dir = a.cfg.Transfer.DownloadDir
			}

			s, err := sheet.ReadCSVFile(args[0])
			if err != nil {
				return err
			}

			d := links.NewDownloader(a.httpClient(), a.transfers, a.cfg.Transfer.Workers)
			report, err := d.Download(ctx, s, dir)
			if report != nil {
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "downloaded %d, skipped %d, failed %d -> %s\n",
					report.Downloaded, report.Skipped, report.Failed, dir)
				printFailures(out, report.Failures)
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Target directory (default: TRANSFER_DOWNLOAD_DIR)")
	return cmd
}

func newMigrateCmd(a *app) *cobra.Command {
	var kind, outDir string

	cmd := &cobra.Command{
		Use:   "migrate <csv>",
		Short: "Move linked files into object storage",
		Long: `Download every bubble.io file referenced by the table, upload it into
the bucket configured for its column and replace the link with the public
URL. Files are uploaded under their original name; names the storage
rejects are retried once with the column's naming rule.

With DATABASE_URL set, migrated files are recorded and reused by later runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.cfg.RequireStorage(); err != nil {
				return err
			}

			ctx, cancel := a.runContext(cmd)
			defer cancel()

			if kind == "" {
				k, ok := core.MatchKind(filepath.Base(args[0]))
				if !ok {
					return fmt.Errorf("%s: %w", args[0], formatter.ErrNoTableKind)
				}
				kind = k
			}

			s, err := sheet.ReadCSVFile(args[0])
			if err != nil {
				return err
			}

			var l ledger.Ledger = ledger.Noop{}
			if a.cfg.Database.LedgerEnabled() {
				pool, err := ledger.Connect(ctx, a.cfg.Database.URL, ledger.PoolOptions{
					MaxConns:        a.cfg.Database.MaxConns,
					MinConns:        a.cfg.Database.MinConns,
					MaxConnLifetime: a.cfg.Database.MaxConnLifetime,
				})
				if err != nil {
					return err
				}
				defer pool.Close()

				store := ledger.New(pool)
				if err := store.EnsureSchema(ctx); err != nil {
					return err
				}
				if n, err := store.Count(ctx); err == nil {
					logging.FromContext(ctx).Info("ledger ready", "entries", n)
				}
				l = store
			}

			m := links.NewMigrator(links.MigratorOptions{
				Fetcher: a.httpClient(),
				Store: links.NewStorageClient(links.StorageOptions{
					URL:        a.cfg.Storage.URL,
					Key:        a.cfg.Storage.Key,
					Timeout:    a.cfg.Storage.Timeout,
					RetryCount: a.cfg.Storage.RetryCount,
					RetryWait:  a.cfg.Storage.RetryWait,
				}),
				Router:  links.NewRouter(a.cfg.Storage.DefaultBucket),
				Ledger:  l,
				Limiter: a.transfers,
				Workers: a.cfg.Transfer.Workers,
			})

			report, err := m.Migrate(ctx, s, kind)
			if err != nil && report == nil {
				return err
			}

			outPath, werr := outputFile(args[0], outDir, "migrated")
			if werr == nil {
				werr = sheet.WriteCSVFile(outPath, s)
			}
			if werr != nil {
				return werr
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "migrated %d, reused %d, renamed %d, failed %d -> %s\n",
				report.Migrated, report.Reused, report.Renamed, report.Failed, outPath)
			printFailures(w, report.Failures)
			return err
		},
	}

	cmd.Flags().StringVarP(&kind, "table", "t", "", "Table kind (default: matched from the file name)")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Output directory (default: next to the input)")
	return cmd
}

func (a *app) httpClient() *resty.Client {
	return links.NewHTTPClient(a.cfg.Storage.Timeout, a.cfg.Storage.RetryCount, a.cfg.Storage.RetryWait)
}

// outputFile names the output of a link command: <base>_<label>_<timestamp>.csv
// in dir, or next to input when dir is empty.
func outputFile(input, dir, label string) (string, error) {
	base, _ := sheet.SplitName(input)
	if dir == "" {
		dir = filepath.Dir(input)
	} else if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	return filepath.Join(dir, sheet.TimestampedName(base, label, ".csv", time.Now())), nil
}

func printFailures(w io.Writer, failures []links.Failure) {
	for _, f := range failures {
		fmt.Fprintf(w, "  row %d %s: %s: %s\n", f.Row+1, f.Column, f.URL, core.FormatUserError(f.Err))
	}
}
