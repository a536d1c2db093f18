package faultline_test

import (
	"fmt"

	"github.com/knersus/faultline/pkg/faultline"
)

func Example() {
	log := `// CRASH: com.example.app (pid 1234)
// Short Msg: java.lang.NullPointerException
// Long Msg: Unable to create application com.example.app: java.lang.NullPointerException
java.lang.NullPointerException: Attempt to invoke virtual method
	at com.example.app.MainActivity.onCreate(MainActivity.kt:42)

// Monkey finished
`

	a := faultline.New()
	report := a.Analyze(log)

	first := report.Errors[0]
	fmt.Printf("Status: %s\n", report.TestSummary.Status)
	fmt.Printf("Category: %s, Process: %s\n", first.Category, first.ProcessName)
	fmt.Printf("Ownership: %s\n", first.RootCause.PrimaryLocation.Ownership)
	// Output:
	// Status: COMPLETED
	// Category: crash, Process: com.example.app
	// Ownership: APPLICATION
}
