package analytics_test

import (
	"fmt"

	"github.com/matzehuels/reftree/pkg/analytics"
	"github.com/matzehuels/reftree/pkg/forest"
)

func ExampleAnalyzer_TopReferrersByReach() {
	f := forest.New()
	_, _ = f.RegisterUser("A", "")
	_, _ = f.RegisterUser("B", "A")
	_, _ = f.RegisterUser("C", "A")
	_, _ = f.RegisterUser("D", "B")
	_, _ = f.RegisterUser("E", "B")
	_, _ = f.RegisterUser("F", "C")

	top, _ := analytics.New(f).TopReferrersByReach(3)
	for _, u := range top {
		fmt.Printf("%s %d\n", u.ID, u.Score)
	}
	// Output:
	// A 5
	// B 2
	// C 1
}

func ExampleAnalyzer_FlowCentrality() {
	f := forest.New()
	prev := ""
	for _, id := range []string{"A", "B", "C", "D", "E"} {
		_, _ = f.RegisterUser(id, prev)
		prev = id
	}

	for _, u := range analytics.New(f).FlowCentrality() {
		fmt.Printf("%s %d\n", u.ID, u.Score)
	}
	// Output:
	// C 4
	// B 3
	// D 3
	// A 0
	// E 0
}
