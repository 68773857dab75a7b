// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

// DefaultScopeField is the attribute retrieval filters on when a scope is given.
const DefaultScopeField = "CSU"

// CustomerIndex returns the definition of a customer index named name.
func CustomerIndex(name string) *IndexDefinition {
	return &IndexDefinition{
		Name: name,
		Fields: []FieldDefinition{
			{Name: FieldID, Type: FieldTypeString, Filterable: true},
			{Name: "CustomerID", Type: FieldTypeString, Filterable: true},
			{Name: "Name", Type: FieldTypeString},
			{Name: "Region", Type: FieldTypeString, Filterable: true},
			{Name: "Realm", Type: FieldTypeString, Filterable: true},
			{Name: "Clan", Type: FieldTypeString, Filterable: true},
			{Name: "Contact", Type: FieldTypeString},
			{Name: "CSU", Type: FieldTypeString, Filterable: true},
			{Name: "GeopoliticalIndex", Type: FieldTypeDouble, Filterable: true},
			{Name: "EconomicHealthIndex", Type: FieldTypeDouble, Filterable: true},
			{Name: "PreferredSeason", Type: FieldTypeString, Filterable: true},
			{Name: "TransportationCostUSD", Type: FieldTypeDouble, Filterable: true},
			{Name: FieldDescription, Type: FieldTypeString, Filterable: true},
		},
		VectorField: FieldVector,
		Dimensions:  DefaultDimensions,
	}
}

// CRMIndex returns the definition of an order/CRM index named name.
func CRMIndex(name string) *IndexDefinition {
	return &IndexDefinition{
		Name: name,
		Fields: []FieldDefinition{
			{Name: FieldID, Type: FieldTypeString, Filterable: true},
			{Name: "OrderID", Type: FieldTypeString, Filterable: true},
			{Name: "CustomerID", Type: FieldTypeString, Filterable: true},
			{Name: "OfferID", Type: FieldTypeString},
			{Name: "OrderDate", Type: FieldTypeString},
			{Name: "DeliveryDate", Type: FieldTypeString},
			{Name: "DeliveryFrom", Type: FieldTypeString, Filterable: true},
			{Name: "DeliveryTo", Type: FieldTypeString, Filterable: true},
			{Name: "Quantity", Type: FieldTypeInteger, Filterable: true},
			{Name: "PricePerUnitUSD", Type: FieldTypeDouble, Filterable: true},
			{Name: "TotalPriceUSD", Type: FieldTypeDouble, Filterable: true},
			{Name: "Mine", Type: FieldTypeString, Filterable: true},
			{Name: "MineLocation", Type: FieldTypeString, Filterable: true},
			{Name: "MineCapacity", Type: FieldTypeDouble, Filterable: true},
			{Name: "DemandIndex", Type: FieldTypeDouble, Filterable: true},
			{Name: "SupplyIndex", Type: FieldTypeDouble, Filterable: true},
			{Name: "Season", Type: FieldTypeString, Filterable: true},
			{Name: "CSU", Type: FieldTypeString, Filterable: true},
			{Name: "GeopoliticalIndex", Type: FieldTypeDouble, Filterable: true},
			{Name: "TransportationCostUSD", Type: FieldTypeDouble, Filterable: true},
			{Name: "EconomicHealthIndex", Type: FieldTypeDouble, Filterable: true},
			{Name: "AdjustedPricePerUnitUSD", Type: FieldTypeDouble, Filterable: true},
			{Name: FieldDescription, Type: FieldTypeString, Filterable: true},
		},
		VectorField: FieldVector,
		Dimensions:  DefaultDimensions,
	}
}

// IndexFor returns the default definition for kind.
func IndexFor(kind Kind, name string) *IndexDefinition {
	if kind == KindCustomer {
		return CustomerIndex(name)
	}
	return CRMIndex(name)
}

// DefaultSelect is the projection requested from each index at query time.
func DefaultSelect(kind Kind) []string {
	switch kind {
	case KindCustomer:
		return []string{
			"CustomerID", "Name", "Region", "Realm", "Clan", "Contact",
			"GeopoliticalIndex", "EconomicHealthIndex", "PreferredSeason",
			"TransportationCostUSD", FieldDescription, "CSU",
		}
	case KindCRM:
		return []string{
			"OrderID", "CustomerID", "OfferID", "OrderDate", "DeliveryDate",
			"DeliveryFrom", "DeliveryTo", "Quantity", "PricePerUnitUSD",
			"TotalPriceUSD", "Mine", "MineLocation", "MineCapacity",
			"DemandIndex", "SupplyIndex", "Season", "GeopoliticalIndex",
			"TransportationCostUSD", "EconomicHealthIndex",
			"AdjustedPricePerUnitUSD", FieldDescription, "CSU",
		}
	default:
		return nil
	}
}
