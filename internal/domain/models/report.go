package models

import "time"

// SignalSnapshot is the per-signal slice of a ForecastReport.
type SignalSnapshot struct {
	Score      float64 `json:"score"`
	CrisisFlag bool    `json:"crisis_flag"`
	Degraded   bool    `json:"degraded,omitempty"`
}

// ForecastReport is the immutable result of one evaluation cycle.
// Rounding contract: composite 3 decimals, intensity 1, prices 2,
// confidence integer. Created fresh per evaluation, never mutated.
type ForecastReport struct {
	Timestamp       time.Time                     `json:"timestamp"`
	Commodity       string                        `json:"commodity"`
	Signals         map[SignalName]SignalSnapshot `json:"signals"`
	CompositeScore  float64                       `json:"composite_score"`
	CrisisIntensity float64                       `json:"crisis_intensity"`
	Regime          Regime                        `json:"regime"`
	AnchorPrice     float64                       `json:"anchor_price"`
	HorizonPrices   map[Horizon]float64           `json:"horizon_prices"`
	ConfidencePct   int                           `json:"confidence_pct"`
	Recommendation  Recommendation                `json:"recommendation"`
	Action          string                        `json:"action"`
	PrimaryDriver   string                        `json:"primary_driver"`
}

// ReportSummary is the row shape served by the report history endpoint.
type ReportSummary struct {
	Timestamp       time.Time `json:"timestamp"`
	Commodity       string    `json:"commodity"`
	Regime          Regime    `json:"regime"`
	CompositeScore  float64   `json:"composite_score"`
	CrisisIntensity float64   `json:"crisis_intensity"`
	AnchorPrice     float64   `json:"anchor_price"`
}
