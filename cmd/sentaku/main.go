// Package main is the Sentaku CLI entry point.
package main

import "github.com/hyperjump/sentaku/internal/cli"

var version = "dev"

func main() {
	cli.Version = version
	cli.Execute()
}
