package quote

import (
	"math/big"

	"github.com/govalues/decimal"
	"github.com/rs/zerolog"

	"github.com/dora-network/order-utils/calculation"
	"github.com/dora-network/order-utils/errors"
	"github.com/dora-network/order-utils/market"
	"github.com/dora-network/order-utils/math"
	"github.com/dora-network/order-utils/metrics"
	"github.com/dora-network/order-utils/order"
	"github.com/dora-network/order-utils/rates"
	"github.com/dora-network/order-utils/sorting"
	"github.com/dora-network/order-utils/validation"
)

// Request describes a market fill. FillAmount and RemainingFillableAmounts are in maker units for Buy and taker
// units for Sell. Fee orders are always measured in maker units.
type Request struct {
	Operation  market.Operation
	Orders     []order.Order
	FeeOrders  []order.Order
	FillAmount *big.Int
	// FeeRate is the price of the fee token in taker asset, used to rank orders by their all-in rate.
	FeeRate decimal.Decimal
	// RemainingFillableAmounts defaults to each order's nominal amount for Operation.
	RemainingFillableAmounts []*big.Int
	// RemainingFillableFeeAmounts defaults to each fee order's makerAssetAmount.
	RemainingFillableFeeAmounts []*big.Int
	// SlippageBufferAmount and FeeSlippageBufferAmount default to the quoter's.
	SlippageBufferAmount    *big.Int
	FeeSlippageBufferAmount *big.Int
	// SkipSort keeps the caller's ordering of Orders and FeeOrders.
	SkipSort bool
}

// Quote is the orders, and the fee orders paying their taker fees, selected to fill a request.
type Quote struct {
	Operation market.Operation
	Targets   market.Selection
	Fees      market.FeeSelection
	// FeeTakerFillAmounts[i] is the taker asset to spend on Fees.FeeOrders[i] to net its share of the fee still
	// owed after the orders before it, capped at what buys the order's attributed liquidity.
	FeeTakerFillAmounts []*big.Int
	// InsufficientLiquidity is set when either selection left part of its amount uncovered.
	InsufficientLiquidity bool
}

// Quoter builds quotes. It holds no state between calls and is safe for concurrent use.
type Quoter struct {
	log             zerolog.Logger
	instrumentation *metrics.Instrumentation
	validator       validation.Validator
	slippage        *big.Int
	feeSlippage     *big.Int
}

func New(opts ...Option) *Quoter {
	q := &Quoter{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Quote selects orders for the request. An uncovered remainder is reported on the quote, not as an error.
func (q *Quoter) Quote(req Request) (*Quote, error) {
	var res *Quote
	err := q.instrumentation.Observe(
		metrics.InstrumentationTypeQuoteRequestCount,
		metrics.InstrumentationTypeQuoteRequestDuration,
		metrics.InstrumentationTypeQuoteRequestFailure,
		string(req.Operation),
		func() error {
			var err error
			res, err = q.quote(req)
			return err
		},
	)
	if err != nil {
		q.log.Error().Err(err).Str("operation", string(req.Operation)).Msg("failed to build quote")
		return nil, err
	}

	q.instrumentation.ObserveSelection(metrics.StageTarget, len(res.Targets.Orders), !res.Targets.IsFullyCovered())
	q.instrumentation.ObserveSelection(metrics.StageFee, len(res.Fees.FeeOrders), math.IsPositive(res.Fees.RemainingFeeAmount))

	if res.InsufficientLiquidity {
		q.log.Warn().
			Str("operation", string(req.Operation)).
			Stringer("fill_amount", req.FillAmount).
			Stringer("remaining_fill_amount", res.Targets.RemainingFillAmount).
			Stringer("remaining_fee_amount", res.Fees.RemainingFeeAmount).
			Msg("insufficient liquidity")
	} else {
		q.log.Debug().
			Str("operation", string(req.Operation)).
			Stringer("fill_amount", req.FillAmount).
			Int("orders", len(res.Targets.Orders)).
			Int("fee_orders", len(res.Fees.FeeOrders)).
			Stringer("total_fee_amount", res.Fees.TotalFeeAmount).
			Msg("quote built")
	}
	return res, nil
}

func (q *Quoter) quote(req Request) (*Quote, error) {
	op := req.Operation
	if op != market.Buy && op != market.Sell {
		return nil, errors.Validation("operation must be %q or %q, got %q", market.Buy, market.Sell, op)
	}

	if q.validator != nil {
		if err := validation.ValidateOrders(q.validator, "orders", req.Orders); err != nil {
			return nil, err
		}
		if err := validation.ValidateOrders(q.validator, "feeOrders", req.FeeOrders); err != nil {
			return nil, err
		}
	}

	orders, feeOrders := req.Orders, req.FeeOrders
	snapshot := req.RemainingFillableAmounts
	if snapshot == nil {
		snapshot = market.DefaultRemainingFillableAmounts(orders, op)
	}
	feeSnapshot := req.RemainingFillableFeeAmounts
	if feeSnapshot == nil {
		feeSnapshot = market.DefaultRemainingFillableAmounts(feeOrders, market.Buy)
	}

	if !req.SkipSort {
		var err error
		orders, snapshot, err = sorting.SortOrdersWithAmounts(orders, snapshot, rates.OrderRate(req.FeeRate))
		if err != nil {
			return nil, err
		}
		feeOrders, feeSnapshot, err = sorting.SortOrdersWithAmounts(feeOrders, feeSnapshot, rates.FeeOrderRate)
		if err != nil {
			return nil, err
		}
	}

	targets, err := market.SelectOrdersForFill(orders, snapshot, req.FillAmount, orDefault(req.SlippageBufferAmount, q.slippage))
	if err != nil {
		return nil, err
	}
	fees, err := market.ResolveFeeOrdersForOperation(
		op,
		targets.Orders,
		targets.AttributedAmounts,
		feeOrders,
		feeSnapshot,
		orDefault(req.FeeSlippageBufferAmount, q.feeSlippage),
	)
	if err != nil {
		return nil, err
	}

	takerFills, err := feeTakerFillAmounts(fees)
	if err != nil {
		return nil, err
	}

	return &Quote{
		Operation:             op,
		Targets:               targets,
		Fees:                  fees,
		FeeTakerFillAmounts:   takerFills,
		InsufficientLiquidity: !targets.IsFullyCovered() || math.IsPositive(fees.RemainingFeeAmount),
	}, nil
}

// feeTakerFillAmounts sizes each fee order's taker fill from the trimmed fee amounts, since the attributed
// amount of the last fee order can exceed the fee owed.
func feeTakerFillAmounts(fees market.FeeSelection) ([]*big.Int, error) {
	needed := fees.Selection().TrimmedAmounts()
	out := make([]*big.Int, len(fees.FeeOrders))
	for i, o := range fees.FeeOrders {
		takerFill, _, err := calculation.TakerFillAmountForFeeOrder(o, needed[i])
		if err != nil {
			return nil, err
		}
		available, err := calculation.TakerFillAmount(o, fees.AttributedFeeAmounts[i])
		if err != nil {
			return nil, err
		}
		out[i] = math.Copy(math.Min(takerFill, math.Min(available, o.TakerAssetAmount)))
	}
	return out, nil
}

func orDefault(v, def *big.Int) *big.Int {
	if v != nil {
		return v
	}
	return def
}
