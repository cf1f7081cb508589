// Package main is minusbot, the portfolio chatbot on the command line.
package main

import (
	"os"

	"github.com/manasranjandas/portfolio-go/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
