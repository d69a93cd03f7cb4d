package main

import "github.com/avocarbon/kbchat/internal/commands"

func main() {
	commands.Execute()
}
