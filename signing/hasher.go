package signing

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	gmath "github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"

	"github.com/dora-network/order-utils/errors"
	"github.com/dora-network/order-utils/order"
	"github.com/dora-network/order-utils/validation"
)

const (
	ExchangeDomainName    = "0x Protocol"
	ExchangeDomainVersion = "3.0.0"

	orderPrimaryType = "Order"
	domainType       = "EIP712Domain"
)

var orderTypes = apitypes.Types{
	domainType: []apitypes.Type{
		{Name: "name", Type: "string"},
		{Name: "version", Type: "string"},
		{Name: "chainId", Type: "uint256"},
		{Name: "verifyingContract", Type: "address"},
	},
	orderPrimaryType: []apitypes.Type{
		{Name: "makerAddress", Type: "address"},
		{Name: "takerAddress", Type: "address"},
		{Name: "feeRecipientAddress", Type: "address"},
		{Name: "senderAddress", Type: "address"},
		{Name: "makerAssetAmount", Type: "uint256"},
		{Name: "takerAssetAmount", Type: "uint256"},
		{Name: "makerFee", Type: "uint256"},
		{Name: "takerFee", Type: "uint256"},
		{Name: "expirationTimeSeconds", Type: "uint256"},
		{Name: "salt", Type: "uint256"},
		{Name: "makerAssetData", Type: "bytes"},
		{Name: "takerAssetData", Type: "bytes"},
		{Name: "makerFeeAssetData", Type: "bytes"},
		{Name: "takerFeeAssetData", Type: "bytes"},
	},
}

// Hasher computes the hash an order's maker signs and the exchange identifies the order by.
type Hasher interface {
	OrderHash(o order.Order) (common.Hash, error)
}

// TypedDataHasher hashes orders as EIP-712 typed data under the exchange domain of each order.
type TypedDataHasher struct{}

var _ Hasher = TypedDataHasher{}

func (TypedDataHasher) OrderHash(o order.Order) (common.Hash, error) {
	return OrderHash(o)
}

// TypedData builds the EIP-712 typed data of an order. The verifying contract is the order's exchange address.
func TypedData(o order.Order) apitypes.TypedData {
	return apitypes.TypedData{
		Types:       orderTypes,
		PrimaryType: orderPrimaryType,
		Domain: apitypes.TypedDataDomain{
			Name:              ExchangeDomainName,
			Version:           ExchangeDomainVersion,
			ChainId:           (*gmath.HexOrDecimal256)(big.NewInt(o.ChainID)),
			VerifyingContract: o.ExchangeAddress.Hex(),
		},
		Message: apitypes.TypedDataMessage{
			"makerAddress":          o.MakerAddress.Hex(),
			"takerAddress":          o.TakerAddress.Hex(),
			"feeRecipientAddress":   o.FeeRecipientAddress.Hex(),
			"senderAddress":         o.SenderAddress.Hex(),
			"makerAssetAmount":      o.MakerAssetAmount.String(),
			"takerAssetAmount":      o.TakerAssetAmount.String(),
			"makerFee":              o.MakerFee.String(),
			"takerFee":              o.TakerFee.String(),
			"expirationTimeSeconds": o.ExpirationTimeSeconds.String(),
			"salt":                  o.Salt.String(),
			"makerAssetData":        hexutil.Bytes(o.MakerAssetData),
			"takerAssetData":        hexutil.Bytes(o.TakerAssetData),
			"makerFeeAssetData":     hexutil.Bytes(o.MakerFeeAssetData),
			"takerFeeAssetData":     hexutil.Bytes(o.TakerFeeAssetData),
		},
	}
}

// OrderHash returns keccak256("\x19\x01" || domainSeparator || hashStruct(order)).
func OrderHash(o order.Order) (common.Hash, error) {
	if err := validation.Default().Validate(o); err != nil {
		return common.Hash{}, err
	}
	return hashTypedData(TypedData(o))
}

func hashTypedData(typedData apitypes.TypedData) (common.Hash, error) {
	domainSeparator, err := typedData.HashStruct(domainType, typedData.Domain.Map())
	if err != nil {
		return common.Hash{}, errors.Wrap(errors.InternalError, err, "failed to hash domain")
	}
	messageHash, err := typedData.HashStruct(typedData.PrimaryType, typedData.Message)
	if err != nil {
		return common.Hash{}, errors.Wrap(errors.InternalError, err, "failed to hash message")
	}
	raw := make([]byte, 0, 2+len(domainSeparator)+len(messageHash))
	raw = append(raw, 0x19, 0x01)
	raw = append(raw, domainSeparator...)
	raw = append(raw, messageHash...)
	return crypto.Keccak256Hash(raw), nil
}
