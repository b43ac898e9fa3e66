package cli

import (
	"math/big"

	"github.com/spf13/cobra"

	"github.com/dora-network/order-utils/errors"
	liquidityredis "github.com/dora-network/order-utils/liquidity/redis"
	"github.com/dora-network/order-utils/math"
	orderredis "github.com/dora-network/order-utils/order/redis"
	pricesredis "github.com/dora-network/order-utils/prices/redis"
	"github.com/dora-network/order-utils/prices/types"
)

func newStoreCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Write orders, remaining fillable amounts or fee rates to redis",
	}
	cmd.AddCommand(
		newStoreOrdersCmd(a),
		newStoreLiquidityCmd(a),
		newStorePricesCmd(a),
	)
	return cmd
}

func newStoreOrdersCmd(a *app) *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Store signed orders by hash",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			orders, err := readSignedOrders(cmd, path)
			if err != nil {
				return err
			}
			rdb, err := a.redisClient()
			if err != nil {
				return err
			}
			defer rdb.Close()
			ctx, cancel := a.context(cmd)
			defer cancel()

			var hashes []string
			err = a.instr.ObserveStore("set_orders", func() error {
				hashes, err = orderredis.SetSignedOrders(ctx, rdb, a.cfg.Redis.Timeout, orders)
				return err
			})
			if err != nil {
				return err
			}
			a.log.Info().Int("orders", len(hashes)).Msg("orders stored")
			return writeJSON(cmd, hashes)
		},
	}
	cmd.Flags().StringVar(&path, "orders", "-", "JSON file of signed orders, - for stdin")
	return cmd
}

func newStoreLiquidityCmd(a *app) *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "liquidity",
		Short: "Store remaining fillable amounts",
		Long:  `liquidity reads a JSON object mapping order hashes to remaining fillable amounts in base units.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var raw map[string]string
			if err := readJSON(cmd, path, &raw); err != nil {
				return err
			}
			amounts, err := parseAmounts(raw)
			if err != nil {
				return err
			}
			rdb, err := a.redisClient()
			if err != nil {
				return err
			}
			defer rdb.Close()
			ctx, cancel := a.context(cmd)
			defer cancel()

			err = a.instr.ObserveStore("set_remaining_fillable", func() error {
				return liquidityredis.SetRemainingFillableAmounts(ctx, rdb, a.cfg.Redis.Timeout, amounts)
			})
			if err != nil {
				return err
			}
			a.log.Info().Int("orders", len(amounts)).Msg("remaining fillable amounts stored")
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "amounts", "-", "JSON file of amounts, - for stdin")
	return cmd
}

func newStorePricesCmd(a *app) *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "prices",
		Short: "Store fee rates",
		Long:  `prices reads a JSON array of {"asset_id", "quote_asset_id", "price"} objects.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var prices []types.Price
			if err := readJSON(cmd, path, &prices); err != nil {
				return err
			}
			rdb, err := a.redisClient()
			if err != nil {
				return err
			}
			defer rdb.Close()
			ctx, cancel := a.context(cmd)
			defer cancel()

			err = a.instr.ObserveStore("set_fee_rates", func() error {
				return pricesredis.SetFeeRates(ctx, rdb, a.cfg.Redis.Timeout, prices)
			})
			if err != nil {
				return err
			}
			a.log.Info().Int("prices", len(prices)).Msg("fee rates stored")
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "prices", "-", "JSON file of prices, - for stdin")
	return cmd
}

func parseAmounts(raw map[string]string) (map[string]*big.Int, error) {
	amounts := make(map[string]*big.Int, len(raw))
	for hash, s := range raw {
		v, err := math.ValidNotNegativeBigInt(s)
		if err != nil {
			return nil, errors.Wrap(errors.ValidationErr, err, hash)
		}
		amounts[hash] = v
	}
	return amounts, nil
}
