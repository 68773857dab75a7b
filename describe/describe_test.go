package describe

import (
	"testing"

	"github.com/poiesic/mithril/core"
	"github.com/stretchr/testify/assert"
)

func TestDescribe_Customer(t *testing.T) {
	fields := core.FieldMap{
		"CustomerID":            "C-001",
		"Name":                  "Aria Stonehand",
		"CSU":                   "East",
		"Clan":                  "Stonehand",
		"Realm":                 "Erebor",
		"Region":                "North",
		"GeopoliticalIndex":     0.82,
		"EconomicHealthIndex":   0.5,
		"PreferredSeason":       "Winter",
		"TransportationCostUSD": 1250.75,
	}

	got := Describe(fields, core.KindCustomer)

	for _, want := range []string{
		"Customer Aria Stonehand", "ID of C-001", "CSU East", "Stonehand clan",
		"Erebor realm", "North region", "geopolitical index of 0.82",
		"economic health index of 0.5", "preferred season is Winter", "1250.75 USD",
	} {
		assert.Contains(t, got, want)
	}
	assert.NotContains(t, got, Unknown)
	assert.NotContains(t, got, NotAvailable)
}

func TestDescribe_CRM(t *testing.T) {
	fields := core.FieldMap{
		"OrderID":                 "O-77",
		"CustomerID":              "C-001",
		"CSU":                     "West",
		"DeliveryFrom":            "Moria",
		"DeliveryTo":              "Dale",
		"DeliveryDate":            "2024-03-01",
		"Quantity":                int64(40),
		"PricePerUnitUSD":         99.5,
		"TotalPriceUSD":           3980.0,
		"Mine":                    "Khazad",
		"MineLocation":            "Misty Mountains",
		"MineCapacity":            10000.0,
		"DemandIndex":             1.2,
		"SupplyIndex":             0.9,
		"GeopoliticalIndex":       0.4,
		"AdjustedPricePerUnitUSD": 101.25,
	}

	got := Describe(fields, core.KindCRM)

	for _, want := range []string{
		"Order O-77", "customer C-001", "CSU West", "from Moria to Dale", "on 2024-03-01",
		"40 units of Mithril", "99.5 USD per unit", "totaling 3980 USD", "from Khazad mine",
		"located at Misty Mountains", "capacity of 10000", "demand index is 1.2",
		"supply index is 0.9", "geopolitical index is 0.4", "adjusted price per unit is 101.25 USD",
	} {
		assert.Contains(t, got, want)
	}
}

func TestDescribe_Placeholders(t *testing.T) {
	t.Run("customer", func(t *testing.T) {
		got := Describe(core.FieldMap{"Name": "Aria", "Region": nil}, core.KindCustomer)
		assert.Contains(t, got, "Customer Aria")
		assert.Contains(t, got, "resides in the Unknown region")
		assert.Contains(t, got, "geopolitical index of N/A")
		assert.Contains(t, got, "economic health index of N/A")
	})

	t.Run("crm", func(t *testing.T) {
		got := Describe(core.FieldMap{}, core.KindCRM)
		assert.Contains(t, got, "Order Unknown placed by customer Unknown")
		assert.Contains(t, got, "demand index is N/A, supply index is N/A")
	})

	t.Run("nil map", func(t *testing.T) {
		assert.NotPanics(t, func() { Describe(nil, core.KindCustomer) })
	})
}

func TestDescribe_Deterministic(t *testing.T) {
	fields := core.FieldMap{"CustomerID": "C-9", "Name": "Borin", "GeopoliticalIndex": 0.1}
	first := Describe(fields, core.KindCustomer)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Describe(fields, core.KindCustomer))
	}
	assert.NotEqual(t, first, Describe(fields, core.KindCRM))
}

func TestDescribe_WholeNumberDoubles(t *testing.T) {
	asFloat := Describe(core.FieldMap{"Name": "Cale", "TransportationCostUSD": 1200.0}, core.KindCustomer)
	asInt := Describe(core.FieldMap{"Name": "Cale", "TransportationCostUSD": int64(1200)}, core.KindCustomer)

	assert.Contains(t, asFloat, "1200 USD")
	assert.NotContains(t, asFloat, "1200.0")
	assert.Equal(t, asInt, asFloat)
}
