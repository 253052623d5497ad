package base

// StatNode is the statistics capability shared by DefaultNode, ClusterNode
// and OriginNode (spec §3, "Node graph" — "all implementing a common
// statistics capability"). Grade selection in flow/circuitbreaker rules
// reads through this interface only, so a rule never needs to know which
// concrete node kind it was handed.
type StatNode interface {
	// AddPass/AddBlock/AddException/AddSuccess append to the current
	// bucket of both the node's leap arrays (spec §4.3 "addX" contract).
	AddPass(n int64)
	AddBlock(n int64)
	AddException(n int64)
	AddSuccess(n int64)
	// AddRT appends a single completed call's round-trip time in ms.
	AddRT(rt int64)

	// Pass/Block/Exception/Success sum across valid buckets of the long
	// (reporting) window.
	Pass() int64
	Block() int64
	Exception() int64
	Success() int64
	// AvgRT is the mean round-trip time over the long window; 0 when no
	// samples exist.
	AvgRT() float64
	// MinRT is the minimum observed round-trip time over the long window.
	MinRT() float64

	// PassQPS etc. read the short (real-time) window.
	PassQPS() float64
	BlockQPS() float64
	ExceptionQPS() float64
	SuccessQPS() float64

	// PreviousWindowPass is the pass count from the short window's bucket
	// exactly one full window back — used by the warm-up shaper.
	PreviousWindowPass() int64

	// CurrentThreadCount is the number of in-flight entries currently
	// attributed to this node.
	CurrentThreadCount() int32
	IncreaseThreadCount()
	DecreaseThreadCount()

	// Reset clears all counters, used when a circuit breaker transitions
	// CLOSED after a successful half-open probe.
	Reset()
}
