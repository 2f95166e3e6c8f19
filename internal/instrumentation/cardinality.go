package instrumentation

// Cardinality management for metrics.
//
// # Warning
//
// High cardinality in metrics can cause:
// - Increased memory usage in Prometheus/metrics backends
// - Slower query performance
// - Higher storage costs
//
// Never record raw roster IDs as metric labels. Actor labels are only
// emitted when DetailedLabels is set, and log lines use hashed
// identifiers (see logging.AnonymizeUser) unless audit PII is enabled.

// Common operation types for engine metrics.
// Status, Component, and Exporter constants are defined in config.go.
const (
	OperationSearch   = "search"
	OperationDetect   = "detect"
	OperationAnalyze  = "analyze"
	OperationBalance  = "balance"
	OperationScore    = "score"
	OperationOptimize = "optimize"
	OperationCreate   = "create"
	OperationList     = "list"
	OperationLoad     = "load"
	OperationSave     = "save"
	OperationAppend   = "append"
)
