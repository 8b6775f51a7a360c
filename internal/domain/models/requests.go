package models

// Requests for the forecast HTTP endpoints. Defined in domain for consistency and reuse.

type ForecastRequest struct {
	Commodity string `query:"commodity" json:"commodity" default:"ZS" validate:"required,max=12"`
	Fresh     bool   `query:"fresh" json:"fresh"`
}

type SignalsRequest struct {
	Commodity string `query:"commodity" json:"commodity" default:"ZS" validate:"required,max=12"`
}

type RegimeRequest struct {
	Commodity string `query:"commodity" json:"commodity" default:"ZS" validate:"required,max=12"`
}
