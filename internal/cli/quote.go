package cli

import (
	"context"
	"math/big"

	"github.com/govalues/decimal"
	"github.com/spf13/cobra"

	"github.com/dora-network/order-utils/errors"
	liquidityredis "github.com/dora-network/order-utils/liquidity/redis"
	"github.com/dora-network/order-utils/market"
	"github.com/dora-network/order-utils/order"
	orderredis "github.com/dora-network/order-utils/order/redis"
	pricesredis "github.com/dora-network/order-utils/prices/redis"
	"github.com/dora-network/order-utils/quote"
	"github.com/dora-network/order-utils/redis"
)

type quoteFlags struct {
	orders      string
	feeOrders   string
	operation   string
	amount      string
	feeRate     string
	slippage    string
	feeSlippage string
	skipSort    bool
	useRedis    bool
}

func newQuoteCmd(a *app) *cobra.Command {
	f := &quoteFlags{}
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Select the orders and fee orders that fill an amount",
		Long: `quote prints the selected orders, the amounts attributed to them and the fee orders covering their
taker fees. The fill amount is in maker asset units for a buy and taker asset units for a sell.
With --redis, remaining fillable amounts are read from redis by order hash, and the fee rate from the
configured fee/quote asset pair unless --fee-rate is given. When no rate is stored for the pair,
market.fee_rate is used.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runQuote(cmd, f)
		},
	}
	cmd.Flags().StringVar(&f.orders, "orders", "", "JSON file of signed orders to fill from, - for stdin")
	cmd.Flags().StringVar(&f.feeOrders, "fee-orders", "", "JSON file of signed fee orders")
	cmd.Flags().StringVar(&f.operation, "operation", string(market.Buy), "buy or sell")
	cmd.Flags().StringVar(&f.amount, "amount", "", "fill amount in base units")
	cmd.Flags().StringVar(&f.feeRate, "fee-rate", "", "price of the fee token in taker asset, overrides market.fee_rate")
	cmd.Flags().StringVar(&f.slippage, "slippage", "", "slippage buffer in base units, overrides market.slippage_buffer_amount")
	cmd.Flags().StringVar(&f.feeSlippage, "fee-slippage", "", "fee slippage buffer, overrides market.fee_slippage_buffer_amount")
	cmd.Flags().BoolVar(&f.skipSort, "skip-sort", false, "keep the order of the input files")
	cmd.Flags().BoolVar(&f.useRedis, "redis", false, "read remaining fillable amounts and the fee rate from redis")
	_ = cmd.MarkFlagRequired("orders")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func (a *app) runQuote(cmd *cobra.Command, f *quoteFlags) error {
	op, err := market.ParseOperation(f.operation)
	if err != nil {
		return errors.Wrap(errors.ValidationErr, err, "--operation")
	}
	amount, err := parseAmount("amount", f.amount, nil)
	if err != nil {
		return err
	}
	slippage, err := parseAmount("slippage", f.slippage, a.market.SlippageBufferAmount)
	if err != nil {
		return err
	}
	feeSlippage, err := parseAmount("fee-slippage", f.feeSlippage, a.market.FeeSlippageBufferAmount)
	if err != nil {
		return err
	}
	feeRate := a.market.FeeRate
	if f.feeRate != "" {
		if feeRate, err = decimal.Parse(f.feeRate); err != nil {
			return errors.Wrap(errors.ValidationErr, err, "--fee-rate")
		}
	}

	signed, err := readSignedOrders(cmd, f.orders)
	if err != nil {
		return err
	}
	signedFee := []order.SignedOrder{}
	if f.feeOrders != "" {
		if signedFee, err = readSignedOrders(cmd, f.feeOrders); err != nil {
			return err
		}
	}

	req := quote.Request{
		Operation:               op,
		Orders:                  order.Orders(signed),
		FeeOrders:               order.Orders(signedFee),
		FillAmount:              amount,
		FeeRate:                 feeRate,
		SlippageBufferAmount:    slippage,
		FeeSlippageBufferAmount: feeSlippage,
		SkipSort:                f.skipSort,
	}

	if f.useRedis {
		if err := a.loadFromRedis(cmd, &req, signed, signedFee, f.feeRate == ""); err != nil {
			return err
		}
	}

	q, err := quote.New(
		quote.WithLogger(a.log),
		quote.WithInstrumentation(a.instr),
	).Quote(req)
	if err != nil {
		return err
	}
	return writeJSON(cmd, q)
}

func (a *app) loadFromRedis(
	cmd *cobra.Command,
	req *quote.Request,
	signed, signedFee []order.SignedOrder,
	loadFeeRate bool,
) error {
	rdb, err := a.redisClient()
	if err != nil {
		return err
	}
	defer rdb.Close()

	ctx, cancel := a.context(cmd)
	defer cancel()

	snapshot, err := a.snapshot(ctx, rdb, signed, req.Orders, req.Operation)
	if err != nil {
		return err
	}
	feeSnapshot, err := a.snapshot(ctx, rdb, signedFee, req.FeeOrders, market.Buy)
	if err != nil {
		return err
	}
	req.RemainingFillableAmounts = snapshot
	req.RemainingFillableFeeAmounts = feeSnapshot

	if !loadFeeRate {
		return nil
	}
	var (
		stored    decimal.Decimal
		lookupErr error
	)
	err = a.instr.ObserveStore("get_fee_rate", func() error {
		stored, lookupErr = pricesredis.GetFeeRate(ctx, rdb, a.cfg.Redis.Timeout, a.market.FeeAssetID, a.market.QuoteAssetID)
		if errors.Is(lookupErr, errors.NotFoundError) {
			return nil
		}
		return lookupErr
	})
	if err != nil {
		return err
	}
	if errors.Is(lookupErr, errors.NotFoundError) {
		a.log.Warn().
			Str("fee_asset_id", a.market.FeeAssetID).
			Str("quote_asset_id", a.market.QuoteAssetID).
			Stringer("fee_rate", req.FeeRate).
			Msg("no fee rate stored, using market.fee_rate")
	}
	req.FeeRate, err = feeRateOr(stored, lookupErr, req.FeeRate)
	return err
}

// feeRateOr returns the fee rate read from redis, or fallback when none is stored for the pair.
func feeRateOr(stored decimal.Decimal, err error, fallback decimal.Decimal) (decimal.Decimal, error) {
	switch {
	case errors.Is(err, errors.NotFoundError):
		return fallback, nil
	case err != nil:
		return decimal.Zero, err
	}
	return stored, nil
}

func (a *app) snapshot(
	ctx context.Context,
	rdb redis.Client,
	signed []order.SignedOrder,
	orders []order.Order,
	op market.Operation,
) ([]*big.Int, error) {
	hashes, err := orderredis.OrderHashes(signed)
	if err != nil {
		return nil, err
	}
	var amounts []*big.Int
	err = a.instr.ObserveStore("get_remaining_fillable", func() error {
		amounts, err = liquidityredis.GetRemainingFillableAmounts(ctx, rdb, a.cfg.Redis.Timeout, hashes...)
		return err
	})
	if err != nil {
		return nil, err
	}
	return liquidityredis.Snapshot(amounts, orders, op)
}
