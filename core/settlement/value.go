package settlement

import (
	"math/big"

	"github.com/holiman/uint256"
	"github.com/nftsweep/sdk-go/core/types"
)

// TotalValue sums the order prices in 256-bit arithmetic. The sum is the
// exact native value the batch transaction must carry; an empty batch is 0.
func TotalValue(orders []types.OrderInfo) (*big.Int, error) {
	total := new(uint256.Int)
	for i, order := range orders {
		if order.Price == nil || order.Price.Sign() < 0 {
			return nil, types.MalformedOrder(i, order.OrderHash, "price", "price must be a non-negative integer")
		}
		price, overflow := uint256.FromBig(order.Price)
		if overflow {
			return nil, types.ValueOverflow(i, order.OrderHash, "price %s exceeds uint256", order.Price)
		}
		if _, overflow := total.AddOverflow(total, price); overflow {
			return nil, types.ValueOverflow(i, order.OrderHash, "batch value exceeds uint256")
		}
	}
	return total.ToBig(), nil
}
