// Package pricing computes order totals from the shop's fixed rule set.
package pricing

// Rules holds the pricing parameters fixed at startup. All amounts are in
// the smallest currency unit (so'm).
type Rules struct {
	DiscountPercent  int64 `mapstructure:"discount_percent"`
	DeliveryFee      int64 `mapstructure:"delivery_fee"`
	FreeShippingOver int64 `mapstructure:"free_shipping_over"`
}

// Quote is the breakdown of a priced cart.
type Quote struct {
	Subtotal int64
	Discount int64
	Delivery int64
	Total    int64
}

// Calculate applies the discount and delivery rules to a subtotal.
// The discount is floor(subtotal * percent / 100); delivery is waived when the
// free-shipping threshold is configured and the discounted amount reaches it.
func Calculate(subtotal int64, rules Rules) Quote {
	var discount int64
	if rules.DiscountPercent > 0 {
		discount = subtotal * rules.DiscountPercent / 100
	}

	afterDiscount := subtotal - discount
	if afterDiscount < 0 {
		afterDiscount = 0
	}

	delivery := rules.DeliveryFee
	if rules.FreeShippingOver > 0 && afterDiscount >= rules.FreeShippingOver {
		delivery = 0
	}

	return Quote{
		Subtotal: subtotal,
		Discount: discount,
		Delivery: delivery,
		Total:    afterDiscount + delivery,
	}
}
