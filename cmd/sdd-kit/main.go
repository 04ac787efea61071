// sdd-kit: Spec-Driven Delivery engine.
//
// Turns structured project intake into a specification, a technical
// plan, a dependency-chained task board and periodic implementation
// reports, persisting everything under the project root. The same
// engine is exposed as a CLI and as an MCP server (stdio transport).
//
// Usage:
//
//	sdd-kit init --name 星图平台 --domain 知识管理 --description ...
//	sdd-kit specify --input intake.json
//	sdd-kit plan
//	sdd-kit tasks
//	sdd-kit implement --input progress.json
//	sdd-kit serve
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
