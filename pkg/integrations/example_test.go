package integrations_test

import (
	"fmt"

	"github.com/matzehuels/depsync/pkg/integrations"
)

func ExampleURLEncode() {
	// URL-encode special characters for search queries
	fmt.Println(integrations.URLEncode(`g:"com.google.guava"`))
	fmt.Println(integrations.URLEncode("a b"))
	// Output:
	// g%3A%22com.google.guava%22
	// a+b
}

func Example_errors() {
	fmt.Println("ErrNotFound:", integrations.ErrNotFound)
	fmt.Println("ErrNetwork:", integrations.ErrNetwork)
	// Output:
	// ErrNotFound: resource not found
	// ErrNetwork: network error
}
