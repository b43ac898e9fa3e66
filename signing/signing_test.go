package signing_test

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dora-network/order-utils/errors"
	"github.com/dora-network/order-utils/order"
	"github.com/dora-network/order-utils/signing"
)

func testOrder(maker common.Address) order.Order {
	o := order.Empty(1337)
	o.ExchangeAddress = common.HexToAddress("0x48bacb9266a570d521063ef5dd96e61686dbe788")
	o.MakerAddress = maker
	o.MakerAssetAmount = big.NewInt(1000)
	o.TakerAssetAmount = big.NewInt(250)
	o.TakerFee = big.NewInt(3)
	o.Salt = big.NewInt(42)
	o.MakerAssetData = common.FromHex("0xf47261b00000000000000000000000001dc4c1cefef38a777b15aa20260a54e584b16c48")
	o.TakerAssetData = common.FromHex("0xf47261b00000000000000000000000001d7022f5b17d2f8b695918fb48fa1089c9f85401")
	return o
}

type funcSigner func(hash common.Hash, addr common.Address) ([]byte, error)

func (f funcSigner) Sign(hash common.Hash, addr common.Address) ([]byte, error) {
	return f(hash, addr)
}

func TestOrderHash(t *testing.T) {
	o := testOrder(common.HexToAddress("0x5409ed021d9299bf6814279a6a1411a7e866a631"))

	hash, err := signing.OrderHash(o)
	require.NoError(t, err)

	digest, _, err := apitypes.TypedDataAndHash(signing.TypedData(o))
	require.NoError(t, err)
	assert.Equal(t, common.BytesToHash(digest), hash)

	again, err := signing.TypedDataHasher{}.OrderHash(o.Clone())
	require.NoError(t, err)
	assert.Equal(t, hash, again)

	tcs := []struct {
		title  string
		mutate func(o *order.Order)
	}{
		{"salt", func(o *order.Order) { o.Salt = big.NewInt(43) }},
		{"chain id", func(o *order.Order) { o.ChainID = 1 }},
		{"exchange", func(o *order.Order) { o.ExchangeAddress = common.HexToAddress("0x01") }},
		{"fee asset data", func(o *order.Order) { o.TakerFeeAssetData = []byte{0x01} }},
		{"taker fee", func(o *order.Order) { o.TakerFee = big.NewInt(4) }},
	}
	for _, tc := range tcs {
		t.Run(tc.title, func(t *testing.T) {
			changed := o.Clone()
			tc.mutate(&changed)
			h, err := signing.OrderHash(changed)
			require.NoError(t, err)
			assert.NotEqual(t, hash, h)
		})
	}
}

func TestOrderHash_Malformed(t *testing.T) {
	o := testOrder(common.Address{})
	o.MakerAssetAmount = nil
	_, err := signing.OrderHash(o)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.SchemaErr))
}

func TestSignOrder(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	s := signing.NewKeySigner(key)
	maker := crypto.PubkeyToAddress(key.PublicKey)
	o := testOrder(maker)
	hash, err := signing.OrderHash(o)
	require.NoError(t, err)

	tcs := []struct {
		title string
		sign  func(signing.Signer, order.Order, common.Address) (order.SignedOrder, error)
		typ   signing.SignatureType
	}{
		{"typed data", signing.SignOrderTypedData, signing.SignatureTypeEIP712},
		{"eth sign", signing.SignOrderEthSign, signing.SignatureTypeEthSign},
		{"default", signing.SignOrder, signing.SignatureTypeEIP712},
	}
	for _, tc := range tcs {
		t.Run(tc.title, func(t *testing.T) {
			signed, err := tc.sign(s, o, maker)
			require.NoError(t, err)
			require.Len(t, signed.Signature, signing.SignatureLength)
			assert.Equal(t, byte(tc.typ), signed.Signature[signing.SignatureLength-1])
			assert.Contains(t, []byte{27, 28}, signed.Signature[0])
			assert.Equal(t, o.Salt.String(), signed.Salt.String())

			ok, err := signing.IsValidSignature(hash, signed.Signature, maker)
			require.NoError(t, err)
			assert.True(t, ok)

			ok, err = signing.IsValidSignature(hash, signed.Signature, common.HexToAddress("0x01"))
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestSignOrder_UnknownSigner(t *testing.T) {
	s := signing.NewKeySigner()
	_, err := signing.SignOrderTypedData(s, testOrder(common.Address{}), common.HexToAddress("0x02"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.InvalidSignerErr))
	assert.False(t, signing.IsUserDenied(err))
}

func TestSignOrder_UserDenied(t *testing.T) {
	calls := 0
	s := funcSigner(func(common.Hash, common.Address) ([]byte, error) {
		calls++
		return nil, errors.ErrUserDeniedSignature
	})

	_, err := signing.SignOrder(s, testOrder(common.Address{}), common.Address{})
	require.Error(t, err)
	assert.True(t, signing.IsUserDenied(err))
	assert.Equal(t, 1, calls)
}

func TestSignOrder_FallsBackToEthSign(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	ks := signing.NewKeySigner(key)
	maker := crypto.PubkeyToAddress(key.PublicKey)

	calls := 0
	s := funcSigner(func(hash common.Hash, addr common.Address) ([]byte, error) {
		calls++
		if calls == 1 {
			return nil, errors.NewInternal("typed data not supported")
		}
		return ks.Sign(hash, addr)
	})

	signed, err := signing.SignOrder(s, testOrder(maker), maker)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, byte(signing.SignatureTypeEthSign), signed.Signature[signing.SignatureLength-1])
}

func TestSignOrder_WrongKey(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	ks := signing.NewKeySigner(key)
	signer := crypto.PubkeyToAddress(key.PublicKey)

	// a signer that answers for a different address than the one it holds the key of
	s := funcSigner(func(hash common.Hash, _ common.Address) ([]byte, error) {
		return ks.Sign(hash, signer)
	})
	_, err = signing.SignOrderTypedData(s, testOrder(common.Address{}), common.HexToAddress("0x03"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.InvalidSignerErr))
}

func TestIsValidSignature_Malformed(t *testing.T) {
	hash := common.HexToHash("0x01")

	tcs := []struct {
		title string
		sig   []byte
	}{
		{"too short", make([]byte, 65)},
		{"unsupported type", append(make([]byte, 65), byte(signing.SignatureTypeInvalid))},
	}
	for _, tc := range tcs {
		t.Run(tc.title, func(t *testing.T) {
			_, err := signing.IsValidSignature(hash, tc.sig, common.Address{})
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.InvalidInputError))
		})
	}

	// a bad v is not an error, the signature just isn't valid
	sig := append(make([]byte, 65), byte(signing.SignatureTypeEIP712))
	sig[0] = 30
	ok, err := signing.IsValidSignature(hash, sig, common.Address{})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFromPrivateKeyHex(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	hexKey := common.Bytes2Hex(crypto.FromECDSA(key))

	for _, in := range []string{hexKey, "0x" + hexKey, " " + hexKey + "\n"} {
		s, err := signing.FromPrivateKeyHex(in)
		require.NoError(t, err)
		assert.Equal(t, []common.Address{crypto.PubkeyToAddress(key.PublicKey)}, s.Addresses())
	}

	_, err = signing.FromPrivateKeyHex("not a key")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.InvalidInputError))
}
