package main

import "github.com/sundayezeilo/shortlinks/cmd/shortlinks/commands"

func main() {
	commands.Execute()
}
