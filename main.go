// Package main is the entry point for the cleandesigner CLI.
package main

import "cleandesigner.dev/pkg/cleandesigner/cmd"

func main() {
	cmd.Execute()
}
