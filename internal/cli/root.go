package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/dora-network/order-utils/config"
	"github.com/dora-network/order-utils/logger"
	"github.com/dora-network/order-utils/metrics"
	"github.com/dora-network/order-utils/redis"
)

// Version is set at build time with -ldflags "-X github.com/dora-network/order-utils/internal/cli.Version=...".
var Version = "0.1.0-dev"

const metricsNamespace = "order_utils"

type app struct {
	configFile string
	logLevel   string

	cfg        *config.Config
	market     config.Market
	log        zerolog.Logger
	instr      *metrics.Instrumentation
	metricsSrv *metrics.Server
}

// NewRootCmd builds the fillquote command tree.
func NewRootCmd() *cobra.Command {
	a := &app{log: zerolog.Nop()}

	root := &cobra.Command{
		Use:   "fillquote",
		Short: "Select orders and fee orders to fill a market buy or sell",
		Long: `fillquote ranks signed orders by their fee-adjusted rate, selects the orders that cover a fill amount
and the fee orders that cover the taker fees owed on them. Remaining fillable amounts, fee rates and
orders can be kept in redis.`,
		Version:           Version,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return a.teardown()
		},
	}

	root.PersistentFlags().StringVar(&a.configFile, "config", "", "configuration file path")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "override log.level")

	root.AddCommand(
		newQuoteCmd(a),
		newHashCmd(a),
		newSignCmd(a),
		newKeygenCmd(a),
		newStoreCmd(a),
	)
	return root
}

// Execute runs the command tree and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configFile)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	a.cfg = cfg

	if a.market, err = cfg.Market.Parse(); err != nil {
		return err
	}

	// stdout carries command output, so console logs go to stderr
	if cfg.Log.File != "" {
		if a.log, err = logger.NewThreadSafeLogger(cfg.Log.Level, cfg.Log.File, false); err != nil {
			return err
		}
	} else {
		lvl, err := zerolog.ParseLevel(cfg.Log.Level)
		if err != nil {
			return fmt.Errorf("parse log level %q: %w", cfg.Log.Level, err)
		}
		if cfg.Log.Console {
			a.log = zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), TimeFormat: time.RFC3339}).
				Level(lvl).With().Timestamp().Logger()
		}
	}
	a.log = a.log.With().Str("command", cmd.Name()).Logger()

	a.instr = metrics.NewQuoteInstrumentation(metricsNamespace)
	if cfg.Metrics.Enabled {
		if a.metricsSrv, err = metrics.StartMetricsServer(cfg.Metrics, a.instr, a.log, Version); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) teardown() error {
	if a.metricsSrv != nil {
		if err := a.metricsSrv.Stop(); err != nil {
			a.log.Warn().Err(err).Msg("failed to stop metrics server")
		}
	}
	return logger.Close()
}

func (a *app) redisClient() (redis.Client, error) {
	return redis.NewClient(a.cfg.Redis)
}

func (a *app) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	timeout := a.cfg.Redis.Timeout
	if timeout <= 0 {
		timeout = redis.DefaultConfig().Timeout
	}
	// each store call may spend a full timeout retrying
	return context.WithTimeout(cmd.Context(), 4*timeout)
}
