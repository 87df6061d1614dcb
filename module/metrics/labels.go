package metrics

const (
	LabelMethod  = "method"
	LabelOutcome = "outcome"
	LabelResult  = "result"
	LabelNode    = "node"
	LabelStatus  = "status"
)

// Values of LabelResult.
const (
	ResultSuccess  = "success"
	ResultFailure  = "failure"
	ResultTimeout  = "timeout"
	ResultNoNodes  = "no_nodes"
	ResultCanceled = "canceled"
)
