// Package main provides the lineage CLI.
package main

import "github.com/mesh-intelligence/lineage/internal/cli"

func main() {
	cli.Execute()
}
