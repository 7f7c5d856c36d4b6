// Command pagefind crawls a built site and produces a static-search bundle,
// or, run with --service, serves indexing requests over stdio.
package main

import (
	"github.com/pagefind-go/pagefind/internal/cli"
)

var version = "dev"

func main() {
	cli.Version = version
	cli.Execute()
}
