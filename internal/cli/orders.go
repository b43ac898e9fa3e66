package cli

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"

	"github.com/dora-network/order-utils/errors"
	"github.com/dora-network/order-utils/order"
	orderredis "github.com/dora-network/order-utils/order/redis"
	"github.com/dora-network/order-utils/secrets"
	"github.com/dora-network/order-utils/signing"
)

const (
	methodAuto     = "auto"
	methodEIP712   = "eip712"
	methodEthSign  = "eth_sign"
	defaultSecrets = secrets.DefaultSignerKeySecretID
)

func newHashCmd(a *app) *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "hash",
		Short: "Print the EIP-712 hash of each order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			orders, err := readSignedOrders(cmd, path)
			if err != nil {
				return err
			}
			hashes, err := orderredis.OrderHashes(orders)
			if err != nil {
				return err
			}
			return writeJSON(cmd, hashes)
		},
	}
	cmd.Flags().StringVar(&path, "orders", "-", "JSON file of orders, - for stdin")
	return cmd
}

type signFlags struct {
	orders    string
	key       string
	projectID string
	secretID  string
	method    string
}

func newSignCmd(a *app) *cobra.Command {
	f := &signFlags{}
	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Sign orders on behalf of their makers",
		Long: `sign signs every order with the key of its maker address and prints the signed orders.
The key is given in hex with --key, or read from the secret manager with --project.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runSign(cmd, f)
		},
	}
	cmd.Flags().StringVar(&f.orders, "orders", "-", "JSON file of orders, - for stdin")
	cmd.Flags().StringVar(&f.key, "key", "", "hex encoded private key")
	cmd.Flags().StringVar(&f.projectID, "project", "", "secret manager project holding the key")
	cmd.Flags().StringVar(&f.secretID, "secret", defaultSecrets, "secret id of the key")
	cmd.Flags().StringVar(&f.method, "method", methodAuto, "auto, eip712 or eth_sign")
	cmd.MarkFlagsMutuallyExclusive("key", "project")
	cmd.MarkFlagsOneRequired("key", "project")
	return cmd
}

func (a *app) runSign(cmd *cobra.Command, f *signFlags) error {
	var sign func(signing.Signer, order.Order, common.Address) (order.SignedOrder, error)
	switch f.method {
	case methodAuto:
		sign = signing.SignOrder
	case methodEIP712:
		sign = signing.SignOrderTypedData
	case methodEthSign:
		sign = signing.SignOrderEthSign
	default:
		return errors.Newf(errors.ValidationErr, "unknown signing method %q", f.method)
	}

	var (
		signer *signing.KeySigner
		err    error
	)
	if f.key != "" {
		signer, err = signing.FromPrivateKeyHex(f.key)
	} else {
		signer, err = signing.NewKeySignerFromSecret(cmd.Context(), f.projectID, f.secretID)
	}
	if err != nil {
		return err
	}

	orders, err := readSignedOrders(cmd, f.orders)
	if err != nil {
		return err
	}
	out := make([]order.SignedOrder, len(orders))
	for i, o := range orders {
		if out[i], err = sign(signer, o.Order, o.MakerAddress); err != nil {
			if signing.IsUserDenied(err) {
				a.log.Warn().Int("order", i).Msg("signature request declined")
			}
			return fmt.Errorf("orders[%d]: %w", i, err)
		}
	}
	a.log.Debug().Int("orders", len(out)).Str("method", f.method).Msg("orders signed")
	return writeJSON(cmd, out)
}

type keygenOutput struct {
	Address    string `json:"address"`
	PrivateKey string `json:"privateKey,omitempty"`
	Secret     string `json:"secret,omitempty"`
}

func newKeygenCmd(a *app) *cobra.Command {
	var projectID, secretID string
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate a signing key",
		Long: `keygen generates a secp256k1 key. With --project the key is stored in the secret manager and only
its address and secret version are printed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			key, err := crypto.GenerateKey()
			if err != nil {
				return errors.Wrap(errors.InternalError, err, "failed to generate key")
			}
			hexKey := common.Bytes2Hex(crypto.FromECDSA(key))
			out := keygenOutput{Address: crypto.PubkeyToAddress(key.PublicKey).Hex()}
			if projectID == "" {
				out.PrivateKey = hexKey
				return writeJSON(cmd, out)
			}
			if out.Secret, err = secrets.CreateSecret(cmd.Context(), projectID, secretID, []byte(hexKey)); err != nil {
				return err
			}
			a.log.Info().Str("address", out.Address).Str("secret", out.Secret).Msg("signing key stored")
			return writeJSON(cmd, out)
		},
	}
	cmd.Flags().StringVar(&projectID, "project", "", "secret manager project to store the key in")
	cmd.Flags().StringVar(&secretID, "secret", defaultSecrets, "secret id to create")
	return cmd
}
