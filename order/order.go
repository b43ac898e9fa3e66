package order

import (
	"crypto/rand"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/dora-network/order-utils/math"
)

// NullAddress is the zero address. An order whose taker is the null address can be filled by anyone.
var NullAddress = common.Address{}

// InfiniteTimestampSec is the expiration used by orders that never expire, 2^256 - 1.
var InfiniteTimestampSec = math.MaxUint256

// Order is an off-chain exchange order. Amounts are integers in the base units of their asset.
// Asset data is opaque to this module and is only carried through for hashing.
type Order struct {
	ChainID               int64
	ExchangeAddress       common.Address
	MakerAddress          common.Address
	TakerAddress          common.Address
	FeeRecipientAddress   common.Address
	SenderAddress         common.Address
	MakerAssetAmount      *big.Int
	TakerAssetAmount      *big.Int
	MakerFee              *big.Int
	TakerFee              *big.Int
	ExpirationTimeSeconds *big.Int
	Salt                  *big.Int
	MakerAssetData        []byte
	TakerAssetData        []byte
	MakerFeeAssetData     []byte
	TakerFeeAssetData     []byte
}

// SignedOrder is an Order together with its maker's signature.
type SignedOrder struct {
	Order
	Signature []byte
}

// CreateOptions holds the optional fields of New. Zero values fall back to the defaults described on each field.
type CreateOptions struct {
	TakerAddress        common.Address // defaults to NullAddress
	SenderAddress       common.Address // defaults to NullAddress
	FeeRecipientAddress common.Address // defaults to NullAddress
	MakerFee            *big.Int       // defaults to 0
	TakerFee            *big.Int       // defaults to 0
	MakerFeeAssetData   []byte         // defaults to the maker asset data
	TakerFeeAssetData   []byte         // defaults to the taker asset data
	Salt                *big.Int       // defaults to GeneratePseudoRandomSalt
	ExpirationTimeSec   *big.Int       // defaults to InfiniteTimestampSec
}

// New creates an order from its required fields and the given options.
func New(
	makerAddress common.Address,
	makerAssetAmount *big.Int,
	makerAssetData []byte,
	takerAssetAmount *big.Int,
	takerAssetData []byte,
	exchangeAddress common.Address,
	chainID int64,
	opts CreateOptions,
) (Order, error) {
	o := Order{
		ChainID:               chainID,
		ExchangeAddress:       exchangeAddress,
		MakerAddress:          makerAddress,
		TakerAddress:          opts.TakerAddress,
		SenderAddress:         opts.SenderAddress,
		FeeRecipientAddress:   opts.FeeRecipientAddress,
		MakerAssetAmount:      math.Copy(makerAssetAmount),
		TakerAssetAmount:      math.Copy(takerAssetAmount),
		MakerFee:              orZero(opts.MakerFee),
		TakerFee:              orZero(opts.TakerFee),
		MakerAssetData:        copyBytes(makerAssetData),
		TakerAssetData:        copyBytes(takerAssetData),
		MakerFeeAssetData:     copyBytes(makerAssetData),
		TakerFeeAssetData:     copyBytes(takerAssetData),
		Salt:                  math.Copy(opts.Salt),
		ExpirationTimeSeconds: math.Copy(opts.ExpirationTimeSec),
	}
	if len(opts.MakerFeeAssetData) > 0 {
		o.MakerFeeAssetData = copyBytes(opts.MakerFeeAssetData)
	}
	if len(opts.TakerFeeAssetData) > 0 {
		o.TakerFeeAssetData = copyBytes(opts.TakerFeeAssetData)
	}
	if o.ExpirationTimeSeconds == nil {
		o.ExpirationTimeSeconds = math.Copy(InfiniteTimestampSec)
	}
	if o.Salt == nil {
		salt, err := GeneratePseudoRandomSalt()
		if err != nil {
			return Order{}, err
		}
		o.Salt = salt
	}
	return o, nil
}

// Empty returns an order on the given chain with every other field at its default value.
// The salt is left at zero so that Empty is deterministic.
func Empty(chainID int64) Order {
	return Order{
		ChainID:               chainID,
		MakerAssetAmount:      math.ZeroBigInt(),
		TakerAssetAmount:      math.ZeroBigInt(),
		MakerFee:              math.ZeroBigInt(),
		TakerFee:              math.ZeroBigInt(),
		ExpirationTimeSeconds: math.Copy(InfiniteTimestampSec),
		Salt:                  math.ZeroBigInt(),
		MakerAssetData:        []byte{},
		TakerAssetData:        []byte{},
		MakerFeeAssetData:     []byte{},
		TakerFeeAssetData:     []byte{},
	}
}

// GeneratePseudoRandomSalt returns a uniformly random 256-bit number. Including it in an order makes its hash
// unique among otherwise identical orders.
func GeneratePseudoRandomSalt() (*big.Int, error) {
	return rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 256))
}

// Clone returns a deep copy of the order.
func (o Order) Clone() Order {
	c := o
	c.MakerAssetAmount = math.Copy(o.MakerAssetAmount)
	c.TakerAssetAmount = math.Copy(o.TakerAssetAmount)
	c.MakerFee = math.Copy(o.MakerFee)
	c.TakerFee = math.Copy(o.TakerFee)
	c.ExpirationTimeSeconds = math.Copy(o.ExpirationTimeSeconds)
	c.Salt = math.Copy(o.Salt)
	c.MakerAssetData = copyBytes(o.MakerAssetData)
	c.TakerAssetData = copyBytes(o.TakerAssetData)
	c.MakerFeeAssetData = copyBytes(o.MakerFeeAssetData)
	c.TakerFeeAssetData = copyBytes(o.TakerFeeAssetData)
	return c
}

// Clone returns a deep copy of the signed order.
func (s SignedOrder) Clone() SignedOrder {
	return SignedOrder{Order: s.Order.Clone(), Signature: copyBytes(s.Signature)}
}

// IsExpired is true if the order's expiration is before now.
func (o Order) IsExpired(now time.Time) bool {
	return o.WillExpire(now, 0)
}

// WillExpire is true if the order expires before now plus secondsFromNow.
func (o Order) WillExpire(now time.Time, secondsFromNow int64) bool {
	deadline := big.NewInt(now.Unix() + secondsFromNow)
	return math.LT(o.ExpirationTimeSeconds, deadline)
}

// IsOpen is true if any taker may fill the order.
func (o Order) IsOpen() bool {
	return o.TakerAddress == NullAddress
}

// Orders extracts the unsigned orders from a slice of signed orders.
func Orders(signed []SignedOrder) []Order {
	out := make([]Order, len(signed))
	for i, s := range signed {
		out[i] = s.Order
	}
	return out
}

// CloneAll deep copies every order in the slice.
func CloneAll(orders []Order) []Order {
	if orders == nil {
		return nil
	}
	out := make([]Order, len(orders))
	for i, o := range orders {
		out[i] = o.Clone()
	}
	return out
}

func orZero(i *big.Int) *big.Int {
	if i == nil {
		return math.ZeroBigInt()
	}
	return math.Copy(i)
}

func copyBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
