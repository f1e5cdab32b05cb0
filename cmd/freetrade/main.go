// Package main is the entry point for the freetrade CLI.
package main

import (
	"os"

	"github.com/shunichi-ikebuchi/freetrade-beancount/cmd/freetrade/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
