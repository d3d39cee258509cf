package utils

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// ToDecimal rescales an on-chain integer amount by 10^-decimals.
// Example: amount=1234500000000000000, decimals=18 => 1.2345
func ToDecimal(amount *big.Int, decimals int32) decimal.Decimal {
	if amount == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(amount, -decimals)
}

