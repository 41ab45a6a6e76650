package main

import (
	"martianoff/pama/cmd/pama/commands"
)

func main() {
	commands.Execute()
}
