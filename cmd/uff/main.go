// Package main provides the UFF model inspector CLI.
package main

import "github.com/born-ml/uff/cmd/uff/cmd"

func main() {
	cmd.Execute()
}
