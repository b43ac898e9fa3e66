package signing

import (
	"context"
	"crypto/ecdsa"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/dora-network/order-utils/errors"
	"github.com/dora-network/order-utils/order"
	"github.com/dora-network/order-utils/secrets"
)

// SignatureType is the trailing byte of an exchange signature naming how it was produced.
type SignatureType byte

const (
	SignatureTypeIllegal SignatureType = 0x00
	SignatureTypeInvalid SignatureType = 0x01
	SignatureTypeEIP712  SignatureType = 0x02
	SignatureTypeEthSign SignatureType = 0x03
)

// SignatureLength is the length of a V || R || S || type signature.
const SignatureLength = 1 + 32 + 32 + 1

// Signer signs a 32 byte digest on behalf of an address and returns the signature as R || S || V.
// V may be either 0/1 or 27/28. An implementation backed by a wallet returns an error of type
// errors.SignatureDeniedErr when its user declines the request.
type Signer interface {
	Sign(hash common.Hash, signer common.Address) ([]byte, error)
}

// KeySigner signs with secp256k1 private keys held in memory.
type KeySigner struct {
	mu   sync.RWMutex
	keys map[common.Address]*ecdsa.PrivateKey
}

var _ Signer = (*KeySigner)(nil)

func NewKeySigner(keys ...*ecdsa.PrivateKey) *KeySigner {
	s := &KeySigner{keys: make(map[common.Address]*ecdsa.PrivateKey, len(keys))}
	for _, k := range keys {
		s.Add(k)
	}
	return s
}

// FromPrivateKeyHex creates a KeySigner from hex encoded private keys, with or without a 0x prefix.
func FromPrivateKeyHex(hexKeys ...string) (*KeySigner, error) {
	s := NewKeySigner()
	for _, h := range hexKeys {
		key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(h), "0x"))
		if err != nil {
			return nil, errors.Wrap(errors.InvalidInputError, err, "failed to parse private key")
		}
		s.Add(key)
	}
	return s, nil
}

// NewKeySignerFromSecret loads a hex encoded private key from the secret manager.
func NewKeySignerFromSecret(ctx context.Context, projectID, secretID string) (*KeySigner, error) {
	payload, err := secrets.GetSecret(ctx, projectID, secretID)
	if err != nil {
		return nil, err
	}
	return FromPrivateKeyHex(string(payload))
}

// Add registers a key and returns its address.
func (s *KeySigner) Add(key *ecdsa.PrivateKey) common.Address {
	addr := crypto.PubkeyToAddress(key.PublicKey)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys[addr] = key
	return addr
}

func (s *KeySigner) Addresses() []common.Address {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]common.Address, 0, len(s.keys))
	for a := range s.keys {
		out = append(out, a)
	}
	return out
}

func (s *KeySigner) Sign(hash common.Hash, signer common.Address) ([]byte, error) {
	s.mu.RLock()
	key, ok := s.keys[signer]
	s.mu.RUnlock()
	if !ok {
		return nil, errors.Newf(errors.InvalidSignerErr, "no key held for %s", signer.Hex())
	}
	sig, err := crypto.Sign(hash.Bytes(), key)
	if err != nil {
		return nil, errors.Wrap(errors.InternalError, err, "failed to sign hash")
	}
	return sig, nil
}

// IsUserDenied reports whether err means the signer declined to sign.
func IsUserDenied(err error) bool {
	return errors.Is(err, errors.SignatureDeniedErr)
}

// SignOrder signs an order as EIP-712 typed data, falling back to an eth_sign signature of the order hash when the
// signer fails for any reason other than its user declining.
func SignOrder(s Signer, o order.Order, signer common.Address) (order.SignedOrder, error) {
	signed, err := SignOrderTypedData(s, o, signer)
	if err == nil || IsUserDenied(err) {
		return signed, err
	}
	return SignOrderEthSign(s, o, signer)
}

// SignOrderTypedData signs the EIP-712 digest of an order.
func SignOrderTypedData(s Signer, o order.Order, signer common.Address) (order.SignedOrder, error) {
	hash, err := OrderHash(o)
	if err != nil {
		return order.SignedOrder{}, err
	}
	return sign(s, o, hash, hash, signer, SignatureTypeEIP712)
}

// SignOrderEthSign signs the order hash with the personal message prefix.
func SignOrderEthSign(s Signer, o order.Order, signer common.Address) (order.SignedOrder, error) {
	hash, err := OrderHash(o)
	if err != nil {
		return order.SignedOrder{}, err
	}
	return sign(s, o, hash, ethSignDigest(hash), signer, SignatureTypeEthSign)
}

func sign(
	s Signer,
	o order.Order,
	hash, digest common.Hash,
	signer common.Address,
	typ SignatureType,
) (order.SignedOrder, error) {
	rsv, err := s.Sign(digest, signer)
	if err != nil {
		return order.SignedOrder{}, err
	}
	if len(rsv) != crypto.SignatureLength {
		return order.SignedOrder{}, errors.Newf(errors.InvalidSignerErr, "signature has length %d", len(rsv))
	}
	v := rsv[crypto.RecoveryIDOffset]
	if v < 27 {
		v += 27
	}
	sig := make([]byte, 0, SignatureLength)
	sig = append(sig, v)
	sig = append(sig, rsv[:64]...)
	sig = append(sig, byte(typ))

	ok, err := IsValidSignature(hash, sig, signer)
	if err != nil {
		return order.SignedOrder{}, err
	}
	if !ok {
		return order.SignedOrder{}, errors.ErrInvalidSignature
	}
	return order.SignedOrder{Order: o.Clone(), Signature: sig}, nil
}

// IsValidSignature reports whether a V || R || S || type signature of hash was produced by signer.
// Only EIP712 and EthSign signatures can be checked off-chain.
func IsValidSignature(hash common.Hash, sig []byte, signer common.Address) (bool, error) {
	if len(sig) != SignatureLength {
		return false, errors.Newf(errors.InvalidInputError, "signature must be %d bytes, got %d", SignatureLength, len(sig))
	}
	digest := hash
	switch typ := SignatureType(sig[SignatureLength-1]); typ {
	case SignatureTypeEIP712:
	case SignatureTypeEthSign:
		digest = ethSignDigest(hash)
	default:
		return false, errors.Newf(errors.InvalidInputError, "unsupported signature type 0x%02x", byte(typ))
	}

	v := sig[0]
	if v >= 27 {
		v -= 27
	}
	if v > 1 {
		return false, nil
	}
	rsv := make([]byte, crypto.SignatureLength)
	copy(rsv, sig[1:65])
	rsv[crypto.RecoveryIDOffset] = v

	pub, err := crypto.SigToPub(digest.Bytes(), rsv)
	if err != nil {
		return false, nil
	}
	return crypto.PubkeyToAddress(*pub) == signer, nil
}

func ethSignDigest(hash common.Hash) common.Hash {
	return common.BytesToHash(accounts.TextHash(hash.Bytes()))
}
