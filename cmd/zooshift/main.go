package main

import "github.com/marcus/zooshift/cmd/zooshift/commands"

func main() {
	commands.Execute()
}
