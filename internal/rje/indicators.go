package rje

import "math"

// Indicators are the KPIs of one engin over one window. Every value is rounded to two
// decimals and a zero denominator yields 0, never NaN or Inf: the UI renders them as-is.
type Indicators struct {
	NHO  float64 `json:"nho"`
	HRM  float64 `json:"hrm"`
	HIM  float64 `json:"him"`
	NI   int     `json:"ni"`
	Disp float64 `json:"disp"`
	TDM  float64 `json:"tdm"`
	MTBF float64 `json:"mtbf"`
	MTTR float64 `json:"mttr"`
	HRD  float64 `json:"hrd"`
	Util float64 `json:"util"`
}

// Compute applies the indicator formulas to the window totals.
//
//	disp = (1 - HIM/NHO)·100      tdm  = HRM/NHO·100
//	mtbf = HRM/NI                 mttr = HIM/NI
//	hrd  = NHO - (HIM + HRM)      util = HRM/(HRM+hrd)·100
//
// hrd is not clamped: inconsistent entries may make it negative.
func Compute(t Totals, nho float64) Indicators {
	ind := Indicators{
		NHO: round2(nho),
		HRM: round2(t.HRM),
		HIM: round2(t.HIM),
		NI:  t.NI,
	}
	if nho > 0 {
		ind.Disp = round2((1 - t.HIM/nho) * 100)
		ind.TDM = round2(t.HRM / nho * 100)
	}
	if t.NI > 0 {
		ind.MTBF = round2(t.HRM / float64(t.NI))
		ind.MTTR = round2(t.HIM / float64(t.NI))
	}
	hrd := nho - (t.HIM + t.HRM)
	ind.HRD = round2(hrd)
	if t.HRM+hrd > 0 {
		ind.Util = round2(t.HRM / (t.HRM + hrd) * 100)
	}
	return ind
}

func round2(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	r := math.Round(x*100) / 100
	if r == 0 {
		return 0 // drop -0
	}
	return r
}
