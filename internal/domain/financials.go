package domain

type Financials struct {
	Total    float64  `json:"total_amount"`
	Balance  float64  `json:"remaining_balance"`
	Currency Currency `json:"currency"`
}

// ComputeFinancials derives the booking total and the balance still owed.
// Amounts are not rounded and no conversion between currencies happens here.
func ComputeFinancials(basePrice, extrasTotal, depositReceived float64, currency Currency) Financials {
	total := basePrice + extrasTotal
	return Financials{
		Total:    total,
		Balance:  total - depositReceived,
		Currency: currency,
	}
}
