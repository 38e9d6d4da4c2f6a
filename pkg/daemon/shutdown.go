package daemon

// Shutdown priorities of the background workers. Workers with a higher
// priority are stopped first.
const (
	PriorityCloseDatabase = iota
	PriorityLedger
	PriorityRestAPI
	PriorityPrometheus
)
