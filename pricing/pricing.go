package pricing

import (
	"github.com/shopspring/decimal"
	"github.com/vibelink-events/vibelink-api/catalog"
)

const (
	// DeliveryStandard is the default delivery timeline
	DeliveryStandard = "standard"
	// DeliveryRush is the 48 hour delivery timeline
	DeliveryRush = "rush"
)

// Selection is the part of an order that determines its price
type Selection struct {
	PackageID       string
	AddOnIDs        []string
	DeliveryUrgency string
}

// LineItem is a priced entry on a quote
type LineItem struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// Quote is the price breakdown for a selection
type Quote struct {
	Package     *LineItem       `json:"package"`
	AddOns      []LineItem      `json:"add_ons"`
	AddOnsTotal decimal.Decimal `json:"add_ons_total"`
	RushFee     decimal.Decimal `json:"rush_fee"`
	Total       decimal.Decimal `json:"total"`
	DepositDue  decimal.Decimal `json:"deposit_due"`
}

// Calculate prices a selection. Unknown package or add-on ids contribute zero
// and a repeated add-on id is charged once. Rush delivery adds the rush fee only
// when the rush add-on is not already selected.
func Calculate(sel Selection) Quote {
	quote := Quote{
		AddOns:      []LineItem{},
		AddOnsTotal: decimal.Zero,
		RushFee:     decimal.Zero,
	}

	total := decimal.Zero
	if pkg, ok := catalog.FindPackage(sel.PackageID); ok {
		quote.Package = &LineItem{ID: pkg.ID, Name: pkg.Name, Price: pkg.Price}
		total = total.Add(pkg.Price)
	}

	rushSelected := false
	counted := make(map[string]bool, len(sel.AddOnIDs))
	for _, id := range sel.AddOnIDs {
		addOn, ok := catalog.FindAddOn(id)
		if !ok || counted[id] {
			continue
		}
		counted[id] = true
		if id == catalog.RushAddOnID {
			rushSelected = true
		}
		quote.AddOns = append(quote.AddOns, LineItem{ID: addOn.ID, Name: addOn.Name, Price: addOn.Price})
		quote.AddOnsTotal = quote.AddOnsTotal.Add(addOn.Price)
	}
	total = total.Add(quote.AddOnsTotal)

	if sel.DeliveryUrgency == DeliveryRush && !rushSelected {
		quote.RushFee = catalog.RushFee
		total = total.Add(quote.RushFee)
	}

	quote.Total = total
	quote.DepositDue = Deposit(total)
	return quote
}

// Total is a shortcut for Calculate(sel).Total
func Total(sel Selection) decimal.Decimal {
	return Calculate(sel).Total
}

// Deposit returns the 50% deposit owed on a total, rounded to pesewas
func Deposit(total decimal.Decimal) decimal.Decimal {
	return total.Div(decimal.NewFromInt(2)).Round(2)
}

// ToPesewas converts a cedi amount to the integer minor unit Paystack expects
func ToPesewas(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// FromPesewas converts a Paystack minor-unit amount back to cedis
func FromPesewas(pesewas int64) decimal.Decimal {
	return decimal.New(pesewas, -2)
}
