// Package main is the voxcli entry point.
package main

import "github.com/phrazzld/vox-api/internal/cli"

func main() {
	cli.Execute()
}
