package validation

import (
	"fmt"
	"math/big"

	"github.com/dora-network/order-utils/errors"
	"github.com/dora-network/order-utils/order"
)

// Validator checks that an order is structurally well-formed.
type Validator interface {
	Validate(o order.Order) error
}

// ValidatorFunc adapts a plain function to Validator.
type ValidatorFunc func(o order.Order) error

func (f ValidatorFunc) Validate(o order.Order) error {
	return f(o)
}

// SchemaValidator requires every amount to be present and non-negative, the asset data to be non-empty,
// and the chain id to be positive.
type SchemaValidator struct{}

func (SchemaValidator) Validate(o order.Order) error {
	amounts := []struct {
		name  string
		value *big.Int
	}{
		{"makerAssetAmount", o.MakerAssetAmount},
		{"takerAssetAmount", o.TakerAssetAmount},
		{"makerFee", o.MakerFee},
		{"takerFee", o.TakerFee},
		{"expirationTimeSeconds", o.ExpirationTimeSeconds},
		{"salt", o.Salt},
	}
	for _, a := range amounts {
		if a.value == nil {
			return errors.Schema("%s is required", a.name)
		}
		if a.value.Sign() < 0 {
			return errors.Schema("%s must be greater than or equal to 0", a.name)
		}
	}
	if len(o.MakerAssetData) == 0 {
		return errors.Schema("makerAssetData is required")
	}
	if len(o.TakerAssetData) == 0 {
		return errors.Schema("takerAssetData is required")
	}
	if o.ChainID <= 0 {
		return errors.Schema("chainId %d must be positive", o.ChainID)
	}
	return nil
}

// ValidateOrders runs v over every order, prefixing the error with the order's position.
// The error keeps the kind reported by the validator.
func ValidateOrders(v Validator, name string, orders []order.Order) error {
	for i, o := range orders {
		if err := v.Validate(o); err != nil {
			return fmt.Errorf("%s: %w", fmtIndex(name, i), err)
		}
	}
	return nil
}

// Default returns the validator the selection functions apply to their inputs. Callers with stricter rules run
// their own Validator in addition, for example through quote.WithValidator.
func Default() Validator {
	return SchemaValidator{}
}

func fmtIndex(name string, i int) string {
	return fmt.Sprintf("%s[%d]", name, i)
}
