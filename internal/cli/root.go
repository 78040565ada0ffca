// Package cli implements catalogctl, the operator CLI for the storefront
// catalog.
package cli

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/MaazSiddiqui25/Baqir-Sons/internal/catalog"
	"github.com/MaazSiddiqui25/Baqir-Sons/internal/cms"
	"github.com/MaazSiddiqui25/Baqir-Sons/internal/contact"
	"github.com/MaazSiddiqui25/Baqir-Sons/internal/domain"
	"github.com/MaazSiddiqui25/Baqir-Sons/internal/image"
	"github.com/MaazSiddiqui25/Baqir-Sons/internal/service"
	"github.com/MaazSiddiqui25/Baqir-Sons/pkg/logger"
)

const (
	FlagProject    = "project"
	FlagDataset    = "dataset"
	FlagAPIVersion = "api-version"
	FlagToken      = "token"
	FlagOffline    = "offline"
	FlagOutput     = "output"
	FlagLogLevel   = "log-level"
	FlagRetries    = "retries"
)

// rootOptions are the persistent flags shared by every subcommand.
type rootOptions struct {
	project    string
	dataset    string
	apiVersion string
	token      string
	offline    bool
	output     string
	logLevel   string
	retries    int

	// strategies overrides the CMS client in tests.
	strategies map[domain.Strategy]cms.StrategyFunc
}

// New returns the catalogctl root command.
func New() *cobra.Command {
	return newRoot(&rootOptions{})
}

func newRoot(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalogctl",
		Short: "Inspect the Baqir & Sons product catalog",
		Long: `catalogctl reads the product catalog the way the storefront does: through
the CMS fetch strategies with retries, falling back to the last snapshot or
the built-in sample catalog.`,
		SilenceUsage:      true,
		DisableAutoGenTag: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := parseOutput(opts.output); err != nil {
				return err
			}
			return nil
		},
	}

	f := cmd.PersistentFlags()
	f.StringVar(&opts.project, FlagProject, os.Getenv("SANITY_PROJECT_ID"), "CMS project id")
	f.StringVar(&opts.dataset, FlagDataset, envOr("SANITY_DATASET", "production"), "CMS dataset")
	f.StringVar(&opts.apiVersion, FlagAPIVersion, envOr("SANITY_API_VERSION", "2024-01-01"), "CMS API version")
	f.StringVar(&opts.token, FlagToken, os.Getenv("SANITY_API_TOKEN"), "CMS read token")
	f.BoolVar(&opts.offline, FlagOffline, false, "skip the CMS and use the built-in sample catalog")
	f.StringVarP(&opts.output, FlagOutput, "o", string(OutputTable), "output format (table, json, yaml)")
	f.StringVar(&opts.logLevel, FlagLogLevel, "warn", "log level for diagnostics on stderr")
	f.IntVar(&opts.retries, FlagRetries, 1, "retry cycles before falling back")

	cmd.AddCommand(
		newProductsCmd(opts),
		newImageCmd(opts),
		newCatalogCmd(opts),
	)
	return cmd
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func (o *rootOptions) logger(cmd *cobra.Command) *slog.Logger {
	return logger.NewWithWriter("catalogctl", o.logLevel, cmd.ErrOrStderr())
}

// fetchStrategies returns the CMS strategies, or none when offline.
func (o *rootOptions) fetchStrategies(log *slog.Logger) (map[domain.Strategy]cms.StrategyFunc, error) {
	if o.strategies != nil {
		return o.strategies, nil
	}
	if o.offline {
		return map[domain.Strategy]cms.StrategyFunc{}, nil
	}
	if o.project == "" {
		return nil, fmt.Errorf("--%s (or SANITY_PROJECT_ID) is required unless --%s is set", FlagProject, FlagOffline)
	}
	client, err := cms.NewClient(cms.Config{
		ProjectID:  o.project,
		Dataset:    o.dataset,
		APIVersion: o.apiVersion,
		Token:      o.token,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("create cms client: %w", err)
	}
	return client.Strategies(), nil
}

func (o *rootOptions) loader(log *slog.Logger) (*catalog.Loader, map[domain.Strategy]cms.StrategyFunc, error) {
	strategies, err := o.fetchStrategies(log)
	if err != nil {
		return nil, nil, err
	}
	cfg := catalog.DefaultConfig()
	cfg.MaxRetries = o.retries
	cfg.RetryDelay = time.Second
	if len(strategies) == 0 {
		cfg.MaxRetries = 0
	}
	return catalog.NewLoader(strategies, cfg, log), strategies, nil
}

func (o *rootOptions) resolver() *image.Resolver {
	return image.New(o.project, o.dataset)
}

func (o *rootOptions) catalogService(log *slog.Logger) (*service.CatalogService, error) {
	l, strategies, err := o.loader(log)
	if err != nil {
		return nil, err
	}
	linker, err := contact.NewLinker(contact.DefaultWhatsAppNumber)
	if err != nil {
		return nil, err
	}
	return service.NewCatalogService(l, strategies[domain.StrategyCached], o.resolver(), linker, log), nil
}
