package models

// WarningCode categorizes warnings by subsystem.
// W1xxx = return data, W2xxx = rates, W3xxx = validation.
type WarningCode string

const (
	WarnSeriesTruncated   WarningCode = "W1001" // series of unequal length were cut to the shortest
	WarnZeroVariance      WarningCode = "W1002" // a series has constant returns; correlation reported as 0
	WarnStaleRate         WarningCode = "W2001" // rate provider failed, a stale cached rate was used
	WarnWeightsRandomized WarningCode = "W3001" // no usable weight hints, random starting weights drawn
	WarnUnknownTicker     WarningCode = "W3002" // a label or hint referenced a ticker that is not stored
)

// Warning represents a non-fatal issue encountered during processing.
type Warning struct {
	Code    WarningCode `json:"code"`
	Message string      `json:"message"`
}
