package quote

import (
	"math/big"

	"github.com/rs/zerolog"

	"github.com/dora-network/order-utils/math"
	"github.com/dora-network/order-utils/metrics"
	"github.com/dora-network/order-utils/validation"
)

type Option func(*Quoter)

func WithLogger(logger zerolog.Logger) Option {
	return func(q *Quoter) {
		q.log = logger
	}
}

func WithInstrumentation(instrumentation *metrics.Instrumentation) Option {
	return func(q *Quoter) {
		q.instrumentation = instrumentation
	}
}

// WithDefaultSlippage sets the slippage buffers used when a request leaves its own unset.
func WithDefaultSlippage(target, fee *big.Int) Option {
	return func(q *Quoter) {
		q.slippage = math.Copy(target)
		q.feeSlippage = math.Copy(fee)
	}
}

// WithValidator runs v over the orders and fee orders of every request, before the schema checks the selection
// applies itself.
func WithValidator(v validation.Validator) Option {
	return func(q *Quoter) {
		q.validator = v
	}
}
