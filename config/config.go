package config

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	mapstructure "github.com/go-viper/mapstructure/v2"
	"github.com/govalues/decimal"
	"github.com/spf13/viper"

	typederrors "github.com/dora-network/order-utils/errors"
	"github.com/dora-network/order-utils/math"
	"github.com/dora-network/order-utils/metrics"
	"github.com/dora-network/order-utils/redis"
	"github.com/dora-network/order-utils/validation"
)

const envPrefix = "order_utils"

type Config struct {
	Log     LogConfig      `mapstructure:"log"`
	Market  MarketConfig   `mapstructure:"market"`
	Redis   redis.Config   `mapstructure:"redis"`
	Metrics metrics.Config `mapstructure:"metrics"`
}

type LogConfig struct {
	Level   string `mapstructure:"level"`
	File    string `mapstructure:"file"`
	Console bool   `mapstructure:"console"`
}

// MarketConfig holds quote defaults. Amounts are base-10 integers in base units, the fee rate a decimal.
type MarketConfig struct {
	SlippageBufferAmount    string `mapstructure:"slippage_buffer_amount"`
	FeeSlippageBufferAmount string `mapstructure:"fee_slippage_buffer_amount"`
	FeeRate                 string `mapstructure:"fee_rate"`
	FeeAssetID              string `mapstructure:"fee_asset_id"`
	QuoteAssetID            string `mapstructure:"quote_asset_id"`
}

// Market is MarketConfig parsed.
type Market struct {
	SlippageBufferAmount    *big.Int
	FeeSlippageBufferAmount *big.Int
	FeeRate                 decimal.Decimal
	FeeAssetID              string
	QuoteAssetID            string
}

// Load reads the config file at path, if any, and applies ORDER_UTILS_* environment overrides,
// e.g. ORDER_UTILS_REDIS_ADDRESS for redis.address.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if errors.As(err, &notFound) {
				return nil, typederrors.Wrap(typederrors.NotFoundError, err, fmt.Sprintf("config file %q not found", path))
			}
			return nil, typederrors.Wrap(typederrors.InvalidInputError, err, "failed to read config file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, decodeHook()); err != nil {
		return nil, typederrors.Wrap(typederrors.InvalidInputError, err, "failed to decode config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.console", true)

	v.SetDefault("market.slippage_buffer_amount", "0")
	v.SetDefault("market.fee_slippage_buffer_amount", "0")
	v.SetDefault("market.fee_rate", "0")
	v.SetDefault("market.fee_asset_id", "ZRX")
	v.SetDefault("market.quote_asset_id", "WETH")

	rc := redis.DefaultConfig()
	v.SetDefault("redis.address", rc.Address)
	v.SetDefault("redis.username", rc.Username)
	v.SetDefault("redis.password", rc.Password)
	v.SetDefault("redis.db", rc.DB)
	v.SetDefault("redis.protocol", rc.Protocol)
	v.SetDefault("redis.disable_identity", rc.DisableIdentity)
	v.SetDefault("redis.client_type", rc.ClientType.String())
	v.SetDefault("redis.master_name", rc.MasterName)
	v.SetDefault("redis.timeout", rc.Timeout.String())

	mc := metrics.DefaultConfig()
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.path", mc.Path)
	v.SetDefault("metrics.host", mc.Host)
	v.SetDefault("metrics.port", mc.Port)
	v.SetDefault("metrics.http_timeout", mc.HttpTimeout.String())
	v.SetDefault("metrics.http_header_timeout", mc.HttpHeaderTimeout.String())
}

func decodeHook() viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.TextUnmarshallerHookFunc(),
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}
}

// Validate checks every field that is parsed later, so a loaded config never fails at use.
func (c Config) Validate() error {
	if _, err := c.Market.Parse(); err != nil {
		return err
	}
	if c.Redis.ClientType == redis.ClientTypeFailover && c.Redis.MasterName == "" {
		return typederrors.Validation("redis.master_name is required for a failover client")
	}
	if len(c.Redis.Address) == 0 {
		return typederrors.Validation("redis.address must not be empty")
	}
	return nil
}

func (m MarketConfig) Parse() (Market, error) {
	slippage, err := math.ValidNotNegativeBigInt(m.SlippageBufferAmount)
	if err != nil {
		return Market{}, typederrors.Wrap(typederrors.ValidationErr, err, "market.slippage_buffer_amount")
	}
	feeSlippage, err := math.ValidNotNegativeBigInt(m.FeeSlippageBufferAmount)
	if err != nil {
		return Market{}, typederrors.Wrap(typederrors.ValidationErr, err, "market.fee_slippage_buffer_amount")
	}
	feeRate, err := decimal.Parse(m.FeeRate)
	if err != nil {
		return Market{}, typederrors.Wrap(typederrors.ValidationErr, err, "market.fee_rate")
	}
	if err := validation.ValidateFeeRate(feeRate); err != nil {
		return Market{}, typederrors.Wrap(typederrors.ValidationErr, err, "market.fee_rate")
	}
	return Market{
		SlippageBufferAmount:    slippage,
		FeeSlippageBufferAmount: feeSlippage,
		FeeRate:                 feeRate,
		FeeAssetID:              m.FeeAssetID,
		QuoteAssetID:            m.QuoteAssetID,
	}, nil
}
