package cli

import (
	"fmt"
	"io"
	"math/big"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/dora-network/order-utils/errors"
	"github.com/dora-network/order-utils/math"
	"github.com/dora-network/order-utils/order"
)

// readSignedOrders reads a JSON array of signed orders. "-" reads stdin.
func readSignedOrders(cmd *cobra.Command, path string) ([]order.SignedOrder, error) {
	var orders []order.SignedOrder
	if err := readJSON(cmd, path, &orders); err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []order.SignedOrder{}
	}
	return orders, nil
}

func readJSON(cmd *cobra.Command, path string, v any) error {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return errors.Wrap(errors.InvalidInputError, err, fmt.Sprintf("read %s", path))
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errors.Wrap(errors.InvalidInputError, err, fmt.Sprintf("decode %s", path))
	}
	return nil
}

func writeJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}

// parseAmount parses an optional base-unit amount flag. An empty value yields def.
func parseAmount(name, value string, def *big.Int) (*big.Int, error) {
	if value == "" {
		return def, nil
	}
	v, err := math.ValidNotNegativeBigInt(value)
	if err != nil {
		return nil, errors.Wrap(errors.ValidationErr, err, "--"+name)
	}
	return v, nil
}
