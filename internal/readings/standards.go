// Package readings normalizes water-quality lab results into canonical readings.
package readings

import (
	"strings"

	"github.com/spherical/homellm/internal/domain"
)

// DefaultStandards returns the EPA reference thresholds in match order.
func DefaultStandards() []domain.Threshold {
	return []domain.Threshold{
		{
			Aliases:        []string{"lead", "pb"},
			Label:          "Lead",
			MCL:            mcl(0.015),
			Unit:           "mg/L",
			ThresholdLabel: "EPA action level",
			Summary:        "Lead action level is 0.015 mg/L (15 ppb). Levels above this require corrective action.",
		},
		{
			Aliases:        []string{"copper", "cu"},
			Label:          "Copper",
			MCL:            mcl(1.3),
			Unit:           "mg/L",
			ThresholdLabel: "EPA action level",
			Summary:        "Copper action level is 1.3 mg/L. Exceedances can trigger corrosion control requirements.",
		},
		{
			Aliases:        []string{"arsenic", "as"},
			Label:          "Arsenic",
			MCL:            mcl(0.01),
			Unit:           "mg/L",
			ThresholdLabel: "EPA maximum contaminant level",
			Summary:        "Arsenic MCL is 0.01 mg/L. Chronic exposure above this poses significant health risks.",
		},
		{
			Aliases:        []string{"nitrate", "no3"},
			Label:          "Nitrate",
			MCL:            mcl(10),
			Unit:           "mg/L",
			ThresholdLabel: "EPA maximum contaminant level",
			Summary:        "Nitrate MCL is 10 mg/L measured as nitrogen. Elevated levels are dangerous for infants.",
		},
		{
			Aliases:        []string{"nitrite", "no2"},
			Label:          "Nitrite",
			MCL:            mcl(1),
			Unit:           "mg/L",
			ThresholdLabel: "EPA maximum contaminant level",
			Summary:        "Nitrite MCL is 1 mg/L measured as nitrogen. High readings require immediate response.",
		},
		{
			Aliases:        []string{"turbidity"},
			Label:          "Turbidity",
			MCL:            mcl(5),
			Unit:           "NTU",
			ThresholdLabel: "EPA secondary standard",
			Summary:        "Turbidity should remain below 5 NTU. Elevated turbidity can indicate microbial risk.",
		},
	}
}

func mcl(v float64) *float64 {
	return &v
}

// FindStandard returns a copy of the first threshold whose alias is a
// substring of the lowercased name. Short aliases match loosely, so
// "Gas" resolves to Arsenic through "as".
func FindStandard(standards []domain.Threshold, name string) *domain.Threshold {
	lower := strings.ToLower(strings.TrimSpace(name))
	if lower == "" {
		return nil
	}
	for _, std := range standards {
		for _, alias := range std.Aliases {
			if strings.Contains(lower, alias) {
				found := std
				return &found
			}
		}
	}
	return nil
}
