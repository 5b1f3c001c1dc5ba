package models

// Requests for the chart-facing HTTP endpoints. Defined in domain for
// consistency and reuse.

type HistoryRequest struct {
	Symbol string `query:"symbol" json:"symbol" default:"" validate:"omitempty,min=1,max=12"`
	Limit  int    `query:"limit" json:"limit" default:"500" validate:"gte=1,lte=5000"`
}

type ForecastRequest struct {
	Symbol  string `query:"symbol" json:"symbol" default:"" validate:"omitempty,min=1,max=12"`
	Horizon int    `query:"horizon" json:"horizon" default:"180" validate:"gte=1,lte=3650"`
}

type ClassifiersRequest struct {
	Symbol string `query:"symbol" json:"symbol" default:"" validate:"omitempty,min=1,max=12"`
}

type DiagnosticsRequest struct {
	Symbol string `query:"symbol" json:"symbol" default:"" validate:"omitempty,min=1,max=12"`
}
