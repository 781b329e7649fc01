// Command kindof classifies and validates YAML and JSON documents.
package main

import "github.com/mesh-intelligence/kindof/internal/cli"

func main() {
	cli.Execute()
}
