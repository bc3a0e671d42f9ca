// Package main provides nightstandctl, the command-line client.
package main

import "github.com/nightstandapp/nightstand-server/internal/cli"

func main() {
	cli.Execute()
}
