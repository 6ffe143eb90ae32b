package main

import "github.com/serverlessresearch/gridkit/cmd"

// gridkit is a single executable using the subcommand pattern
// (http://blog.ralch.com/tutorial/golang-subcommands/) as is common for many
// cloud utilities. All commands live in cmd/.
func main() {
	cmd.Execute()
}
