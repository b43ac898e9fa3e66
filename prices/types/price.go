package types

import (
	"github.com/goccy/go-json"
	"github.com/govalues/decimal"
)

// Price is the price of one unit of AssetID expressed in units of QuoteAssetID.
type Price struct {
	AssetID      string          `json:"asset_id"`
	QuoteAssetID string          `json:"quote_asset_id"`
	Price        decimal.Decimal `json:"price"`
}

// PairID identifies the asset pair of a price.
func PairID(assetID, quoteAssetID string) string {
	return assetID + "/" + quoteAssetID
}

func (p *Price) PairID() string {
	return PairID(p.AssetID, p.QuoteAssetID)
}

func (p *Price) MarshalBinary() ([]byte, error) {
	return json.Marshal(p)
}

func (p *Price) UnmarshalBinary(data []byte) error {
	return json.Unmarshal(data, p)
}
