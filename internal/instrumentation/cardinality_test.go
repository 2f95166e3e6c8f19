package instrumentation

import "testing"

func TestOperationConstants(t *testing.T) {
	operations := map[string]string{
		OperationSearch:   "search",
		OperationDetect:   "detect",
		OperationAnalyze:  "analyze",
		OperationBalance:  "balance",
		OperationScore:    "score",
		OperationOptimize: "optimize",
		OperationCreate:   "create",
		OperationList:     "list",
		OperationLoad:     "load",
		OperationSave:     "save",
		OperationAppend:   "append",
	}

	for constant, expected := range operations {
		if constant != expected {
			t.Errorf("Operation constant = %q, want %q", constant, expected)
		}
	}
}
