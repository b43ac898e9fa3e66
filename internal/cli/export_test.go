package cli

var FeeRateOr = feeRateOr
