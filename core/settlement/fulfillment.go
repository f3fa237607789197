package settlement

import (
	"github.com/nftsweep/sdk-go/core/types"
)

// PlanFulfillments builds the offer/consideration aggregation plan for a
// Seaport batch. Entry i refers only to order i: its single offer item and
// every consideration item, proceeds first and then one per fee recipient.
func PlanFulfillments(orders []types.OrderInfo) (types.FulfillmentPlan, error) {
	plan := make(types.FulfillmentPlan, 0, len(orders))
	for i, order := range orders {
		if order.Terms == nil {
			return nil, types.MalformedOrder(i, order.OrderHash, "terms", "order has no fulfillment terms")
		}
		terms, ok := order.Terms.(*types.SeaportTerms)
		if !ok {
			return nil, types.UnsupportedShape(i, order.OrderHash, "%s orders take no fulfillment plan", order.Terms.Protocol())
		}
		if len(terms.Offer) != 1 {
			return nil, types.UnsupportedShape(i, order.OrderHash, "order offers %d items, batch purchase needs exactly one", len(terms.Offer))
		}

		consideration := make([]types.FulfillmentComponent, 0, 1+terms.FeeRecipientCount())
		for j := 0; j <= terms.FeeRecipientCount(); j++ {
			consideration = append(consideration, types.FulfillmentComponent{OrderIndex: i, ItemIndex: j})
		}
		plan = append(plan, types.OrderFulfillment{
			Offer:         []types.FulfillmentComponent{{OrderIndex: i, ItemIndex: 0}},
			Consideration: consideration,
		})
	}
	return plan, nil
}
