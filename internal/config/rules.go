package config

// Stock categorization tables. Order matters: the categorizer takes the
// first matching entry, so more specific payees sit above the generic ones.

func defaultPayeeRules() []RuleEntry {
	return []RuleEntry{
		{Match: "kamdhenu milk distributor", Category: "Food"},
		{Match: "spotify", Category: "Subscription"},
		{Match: "zomato", Category: "Food"},
		{Match: "swiggy", Category: "Food"},
		{Match: "amazon", Category: "Shopping"},
		{Match: "flipkart", Category: "Shopping"},
		{Match: "netflix", Category: "Entertainment"},
		{Match: "irctc", Category: "Travel"},
		{Match: "ola", Category: "Travel"},
		{Match: "uber", Category: "Travel"},
		{Match: "vijayanand", Category: "Travel"},
		{Match: "recharge", Category: "Bills"},
		{Match: "inox", Category: "Entertainment"},
	}
}

func defaultKeywordRules() []RuleEntry {
	return []RuleEntry{
		{Match: "upi", Category: "Transfer"},
		{Match: "atm", Category: "Cash Withdrawal"},
		{Match: "amazon", Category: "Shopping"},
		{Match: "flipkart", Category: "Shopping"},
		{Match: "restaurant", Category: "Food"},
		{Match: "zomato", Category: "Food"},
		{Match: "pay", Category: "Payment"},
		{Match: "bill", Category: "Bills"},
		{Match: "electricity", Category: "Bills"},
		{Match: "water", Category: "Bills"},
		{Match: "netflix", Category: "Entertainment"},
		{Match: "movie", Category: "Entertainment"},
		{Match: "fuel", Category: "Fuel"},
		{Match: "petrol", Category: "Fuel"},
	}
}
