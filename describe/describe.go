package describe

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/poiesic/mithril/core"
)

// Placeholders rendered for fields that are missing or null. They are stored
// verbatim in published descriptions.
const (
	Unknown      = "Unknown"
	NotAvailable = "N/A"
)

// Describe renders the fixed natural-language summary of a row. It is pure
// and never fails.
func Describe(fields core.FieldMap, kind core.Kind) string {
	v := func(name, placeholder string) string {
		return value(fields, name, placeholder)
	}

	switch kind {
	case core.KindCustomer:
		return fmt.Sprintf(
			"Customer %s with ID of %s, belonging to CSU %s, from the %s clan in the %s realm, resides in the %s region. "+
				"They have a geopolitical index of %s and an economic health index of %s. "+
				"Their preferred season is %s, and the transportation cost associated with deliveries is %s USD.",
			v("Name", Unknown),
			v("CustomerID", Unknown),
			v("CSU", Unknown),
			v("Clan", Unknown),
			v("Realm", Unknown),
			v("Region", Unknown),
			v("GeopoliticalIndex", NotAvailable),
			v("EconomicHealthIndex", NotAvailable),
			v("PreferredSeason", Unknown),
			v("TransportationCostUSD", Unknown),
		)
	default:
		return fmt.Sprintf(
			"Order %s placed by customer %s, belonging to CSU %s, was delivered from %s to %s on %s. "+
				"The order consists of %s units of Mithril priced at %s USD per unit, totaling %s USD. "+
				"The order was sourced from %s mine, located at %s, which has a capacity of %s. "+
				"The demand index is %s, supply index is %s, and geopolitical index is %s. "+
				"The adjusted price per unit is %s USD.",
			v("OrderID", Unknown),
			v("CustomerID", Unknown),
			v("CSU", Unknown),
			v("DeliveryFrom", Unknown),
			v("DeliveryTo", Unknown),
			v("DeliveryDate", Unknown),
			v("Quantity", Unknown),
			v("PricePerUnitUSD", Unknown),
			v("TotalPriceUSD", Unknown),
			v("Mine", Unknown),
			v("MineLocation", Unknown),
			v("MineCapacity", Unknown),
			v("DemandIndex", NotAvailable),
			v("SupplyIndex", NotAvailable),
			v("GeopoliticalIndex", NotAvailable),
			v("AdjustedPricePerUnitUSD", Unknown),
		)
	}
}

func value(fields core.FieldMap, name, placeholder string) string {
	raw, ok := fields[name]
	if !ok || raw == nil {
		return placeholder
	}
	switch x := raw.(type) {
	case string:
		if strings.TrimSpace(x) == "" {
			return placeholder
		}
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}
