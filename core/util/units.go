package util

import (
	"math/big"

	"github.com/cockroachdb/apd/v3"
)

// EtherDecimals is the number of decimals of the native currency
const EtherDecimals = 18

// FormatUnits renders an integer amount of base units as a decimal string
// with trailing zeros removed, e.g. 1500000000000000000 wei as "1.5"
func FormatUnits(value *big.Int, decimals int32) string {
	if value == nil {
		return "0"
	}
	d := apd.NewWithBigInt(new(apd.BigInt).SetMathBigInt(value), -decimals)
	d.Reduce(d)
	return d.Text('f')
}

func FormatEther(wei *big.Int) string {
	return FormatUnits(wei, EtherDecimals)
}
