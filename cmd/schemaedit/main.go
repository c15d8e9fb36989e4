// Command schemaedit resolves editor paths against a schema and a document,
// inspects union variants, and copies/pastes subtrees between locations.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
