// Package faultline analyzes Android monkey stress-test capture logs and
// produces an error catalogue: crashes, ANRs, and exceptions, deduplicated,
// scored for severity, and annotated with a likely root cause.
//
// Quick start:
//
//	a := faultline.New(faultline.WithCorrelation(true))
//
//	report, err := a.AnalyzeFile(ctx, "monkey_logs_20250114/monkey.log")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, e := range report.Errors {
//	    fmt.Println(e.Category, e.ProcessName, e.Severity.Priority)
//	}
//
// An Analyzer is stateless across calls and safe for concurrent use.
package faultline
