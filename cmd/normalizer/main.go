// Command normalizer loads denormalized project records into the five
// normalized tables and verifies their foreign keys.
package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/gartstein/workforce/internal/normalizer"
	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var errViolations = errors.New("foreign key violations found")

type options struct {
	input      string
	driver     string
	db         string
	dsn        string
	s3Region   string
	s3Endpoint string
	s3Path     bool
}

func main() {
	_ = godotenv.Load()
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:          "normalizer",
		Short:        "Normalize project records into a relational store",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := zap.NewProduction()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			store, err := openStore(opts, logger)
			if err != nil {
				return err
			}
			defer store.Close()

			loader, err := newLoader(cmd, opts, logger)
			if err != nil {
				return err
			}

			report, err := normalizer.NewPipeline(loader, store, logger).Run(cmd.Context(), opts.input)
			if err != nil {
				logger.Error("normalization failed", zap.Error(err))
				return err
			}
			logger.Info("normalization complete",
				zap.Int("records", report.Records),
				zap.Int("violations", len(report.Violations)),
			)
			if len(report.Violations) > 0 {
				return errViolations
			}
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.driver, "driver", "sqlite", "store driver: sqlite or postgres")
	flags.StringVar(&opts.db, "db", "software_company_normalized.db", "sqlite database file")
	flags.StringVar(&opts.dsn, "dsn", os.Getenv("NORMALIZER_DSN"), "postgres DSN (driver postgres)")
	root.Flags().StringVar(&opts.input, "input", "", "JSON or YAML records: a path or s3://bucket/key (default: built-in sample)")
	root.Flags().StringVar(&opts.s3Region, "s3-region", os.Getenv("AWS_REGION"), "S3 region")
	root.Flags().StringVar(&opts.s3Endpoint, "s3-endpoint", "", "custom S3 endpoint, e.g. MinIO")
	root.Flags().BoolVar(&opts.s3Path, "s3-path-style", false, "use path-style S3 addressing")

	root.AddCommand(newCheckCmd(opts))
	return root
}

func newCheckCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify foreign keys of an existing store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := zap.NewProduction()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			store, err := openStore(opts, logger)
			if err != nil {
				return err
			}
			defer store.Close()

			violations, err := store.CheckIntegrity(cmd.Context())
			if err != nil {
				return err
			}
			for _, v := range violations {
				fmt.Fprintln(cmd.OutOrStdout(), v.String())
			}
			if len(violations) > 0 {
				return errViolations
			}
			fmt.Fprintln(cmd.OutOrStdout(), "all valid")
			return nil
		},
	}
}

func openStore(opts *options, logger *zap.Logger) (*normalizer.Store, error) {
	dsn := opts.db
	if opts.driver == "postgres" {
		if opts.dsn == "" {
			return nil, errors.New("--dsn is required for the postgres driver")
		}
		dsn = opts.dsn
	}
	return normalizer.OpenStore(opts.driver, dsn, logger)
}

func newLoader(cmd *cobra.Command, opts *options, logger *zap.Logger) (*normalizer.Loader, error) {
	if !strings.HasPrefix(opts.input, "s3://") {
		return normalizer.NewLoader(afero.NewOsFs(), nil, logger), nil
	}
	client, err := normalizer.NewS3Client(cmd.Context(), normalizer.S3Config{
		Region:    opts.s3Region,
		Endpoint:  opts.s3Endpoint,
		PathStyle: opts.s3Path,
	})
	if err != nil {
		return nil, err
	}
	return normalizer.NewLoader(afero.NewOsFs(), client, logger), nil
}
