// Command docstore inspects and edits collections of an ArangoDB database.
//
// Usage:
//
//	docstore --database shop count users --where status=active
//	docstore find users --where address.city=Berlin --limit 10
//	docstore insert users '{"name":"Ada"}'
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
