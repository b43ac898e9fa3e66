package order

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/goccy/go-json"

	"github.com/dora-network/order-utils/errors"
	"github.com/dora-network/order-utils/math"
)

// orderJSON is the wire shape of an Order. Amounts are base-10 strings so no precision is lost in JSON numbers.
type orderJSON struct {
	ChainID               int64          `json:"chainId"`
	ExchangeAddress       common.Address `json:"exchangeAddress"`
	MakerAddress          common.Address `json:"makerAddress"`
	TakerAddress          common.Address `json:"takerAddress"`
	FeeRecipientAddress   common.Address `json:"feeRecipientAddress"`
	SenderAddress         common.Address `json:"senderAddress"`
	MakerAssetAmount      string         `json:"makerAssetAmount"`
	TakerAssetAmount      string         `json:"takerAssetAmount"`
	MakerFee              string         `json:"makerFee"`
	TakerFee              string         `json:"takerFee"`
	ExpirationTimeSeconds string         `json:"expirationTimeSeconds"`
	Salt                  string         `json:"salt"`
	MakerAssetData        hexutil.Bytes  `json:"makerAssetData"`
	TakerAssetData        hexutil.Bytes  `json:"takerAssetData"`
	MakerFeeAssetData     hexutil.Bytes  `json:"makerFeeAssetData"`
	TakerFeeAssetData     hexutil.Bytes  `json:"takerFeeAssetData"`
}

type signedOrderJSON struct {
	orderJSON
	Signature hexutil.Bytes `json:"signature"`
}

func (o Order) toJSON() orderJSON {
	return orderJSON{
		ChainID:               o.ChainID,
		ExchangeAddress:       o.ExchangeAddress,
		MakerAddress:          o.MakerAddress,
		TakerAddress:          o.TakerAddress,
		FeeRecipientAddress:   o.FeeRecipientAddress,
		SenderAddress:         o.SenderAddress,
		MakerAssetAmount:      intString(o.MakerAssetAmount),
		TakerAssetAmount:      intString(o.TakerAssetAmount),
		MakerFee:              intString(o.MakerFee),
		TakerFee:              intString(o.TakerFee),
		ExpirationTimeSeconds: intString(o.ExpirationTimeSeconds),
		Salt:                  intString(o.Salt),
		MakerAssetData:        o.MakerAssetData,
		TakerAssetData:        o.TakerAssetData,
		MakerFeeAssetData:     o.MakerFeeAssetData,
		TakerFeeAssetData:     o.TakerFeeAssetData,
	}
}

func (w orderJSON) toOrder() (Order, error) {
	ints, err := math.ValidBigInts(
		w.MakerAssetAmount,
		w.TakerAssetAmount,
		orDefault(w.MakerFee, "0"),
		orDefault(w.TakerFee, "0"),
		orDefault(w.ExpirationTimeSeconds, InfiniteTimestampSec.String()),
		orDefault(w.Salt, "0"),
	)
	if err != nil {
		return Order{}, errors.Wrap(errors.SchemaErr, err, "decode order")
	}
	return Order{
		ChainID:               w.ChainID,
		ExchangeAddress:       w.ExchangeAddress,
		MakerAddress:          w.MakerAddress,
		TakerAddress:          w.TakerAddress,
		FeeRecipientAddress:   w.FeeRecipientAddress,
		SenderAddress:         w.SenderAddress,
		MakerAssetAmount:      ints[0],
		TakerAssetAmount:      ints[1],
		MakerFee:              ints[2],
		TakerFee:              ints[3],
		ExpirationTimeSeconds: ints[4],
		Salt:                  ints[5],
		MakerAssetData:        w.MakerAssetData,
		TakerAssetData:        w.TakerAssetData,
		MakerFeeAssetData:     w.MakerFeeAssetData,
		TakerFeeAssetData:     w.TakerFeeAssetData,
	}, nil
}

func (o Order) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.toJSON())
}

func (o *Order) UnmarshalJSON(data []byte) error {
	var w orderJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	decoded, err := w.toOrder()
	if err != nil {
		return err
	}
	*o = decoded
	return nil
}

func (o *Order) MarshalBinary() ([]byte, error) {
	return json.Marshal(o)
}

func (o *Order) UnmarshalBinary(data []byte) error {
	return json.Unmarshal(data, o)
}

func (s SignedOrder) MarshalJSON() ([]byte, error) {
	return json.Marshal(signedOrderJSON{orderJSON: s.Order.toJSON(), Signature: s.Signature})
}

func (s *SignedOrder) UnmarshalJSON(data []byte) error {
	var w signedOrderJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	decoded, err := w.orderJSON.toOrder()
	if err != nil {
		return err
	}
	s.Order = decoded
	s.Signature = w.Signature
	return nil
}

func (s *SignedOrder) MarshalBinary() ([]byte, error) {
	return json.Marshal(s)
}

func (s *SignedOrder) UnmarshalBinary(data []byte) error {
	return json.Unmarshal(data, s)
}

func intString(i *big.Int) string {
	if i == nil {
		return ""
	}
	return i.String()
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
