package main

import "github.com/doppelbot/doppel/cmd"

func main() {
	cmd.Execute()
}
