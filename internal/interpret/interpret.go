// Package interpret maps parameter names to engineering context for
// report narration.
package interpret

// Rule describes the engineering meaning of drift in one parameter.
type Rule struct {
	System    string `json:"system"`
	Direction string `json:"direction"`
	Meaning   string `json:"meaning"`
	RiskType  string `json:"risk_type"`
}

var rules = map[string]Rule{
	"charge_air_pressure_bar": {
		System:    "Air Intake / Turbocharging",
		Direction: "decreasing",
		Meaning: "A sustained decline in charge air pressure may indicate intake restriction, " +
			"air filter fouling, or reduced turbocharger efficiency.",
		RiskType: "Performance degradation leading to thermal stress",
	},
	"lo_inlet_temp_c": {
		System:    "Lubrication Oil",
		Direction: "increasing",
		Meaning: "Rising lube oil inlet temperature can indicate reduced cooling efficiency, " +
			"oil cooler fouling, or increased engine friction.",
		RiskType: "Accelerated wear and oil breakdown",
	},
	"tc_lo_inlet_pressure_bar": {
		System:    "Turbocharger Lubrication",
		Direction: "decreasing",
		Meaning: "Declining turbocharger lube oil pressure may suggest filter restriction " +
			"or pump performance issues.",
		RiskType: "Turbocharger bearing wear",
	},
	"htcw_engine_outlet_temp_c": {
		System:    "High Temperature Cooling Water",
		Direction: "increasing",
		Meaning: "Increasing HT cooling water outlet temperature may indicate reduced heat transfer, " +
			"cooler fouling, or elevated engine thermal load.",
		RiskType: "Thermal stress and reduced margin",
	},
	"engine_lo_inlet_pressure_bar": {
		System:    "Main Lubrication System",
		Direction: "decreasing",
		Meaning: "A gradual drop in lube oil inlet pressure can indicate filter loading, " +
			"pump wear, or internal leakage.",
		RiskType: "Loss of lubrication margin",
	},
}

// Param returns the interpretation rule for a parameter, with an
// "Unknown" default for parameters without a rule.
func Param(param string) Rule {
	if r, ok := rules[param]; ok {
		return r
	}
	return Rule{
		System:    "Unknown",
		Direction: "unknown",
		Meaning:   "No interpretation rule defined for this parameter.",
		RiskType:  "Unclassified risk",
	}
}
