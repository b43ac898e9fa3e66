package quote

import (
	"math/big"

	"github.com/goccy/go-json"

	"github.com/dora-network/order-utils/order"
)

type selectionJSON struct {
	Orders              []order.Order `json:"orders"`
	AttributedAmounts   []string      `json:"attributedAmounts"`
	RemainingFillAmount string        `json:"remainingFillAmount"`
	TotalFillAmount     string        `json:"totalFillAmount"`
}

type feesJSON struct {
	selectionJSON
	TotalFeeAmount  string   `json:"totalFeeAmount"`
	TakerFillAmount []string `json:"takerFillAmounts"`
}

type quoteJSON struct {
	Operation             string        `json:"operation"`
	Targets               selectionJSON `json:"targets"`
	TrimmedAmounts        []string      `json:"trimmedAmounts"`
	Fees                  feesJSON      `json:"fees"`
	InsufficientLiquidity bool          `json:"insufficientLiquidity"`
}

// MarshalJSON encodes every amount as a base-10 string.
func (q Quote) MarshalJSON() ([]byte, error) {
	return json.Marshal(quoteJSON{
		Operation: string(q.Operation),
		Targets: selectionJSON{
			Orders:              nonNil(q.Targets.Orders),
			AttributedAmounts:   strs(q.Targets.AttributedAmounts),
			RemainingFillAmount: str(q.Targets.RemainingFillAmount),
			TotalFillAmount:     str(q.Targets.TotalFillAmount),
		},
		TrimmedAmounts: strs(q.Targets.TrimmedAmounts()),
		Fees: feesJSON{
			selectionJSON: selectionJSON{
				Orders:              nonNil(q.Fees.FeeOrders),
				AttributedAmounts:   strs(q.Fees.AttributedFeeAmounts),
				RemainingFillAmount: str(q.Fees.RemainingFeeAmount),
				TotalFillAmount:     str(q.Fees.TotalFillAmount),
			},
			TotalFeeAmount:  str(q.Fees.TotalFeeAmount),
			TakerFillAmount: strs(q.FeeTakerFillAmounts),
		},
		InsufficientLiquidity: q.InsufficientLiquidity,
	})
}

func nonNil(orders []order.Order) []order.Order {
	if orders == nil {
		return []order.Order{}
	}
	return orders
}

func str(i *big.Int) string {
	if i == nil {
		return "0"
	}
	return i.String()
}

func strs(ints []*big.Int) []string {
	out := make([]string, len(ints))
	for i, v := range ints {
		out[i] = str(v)
	}
	return out
}
