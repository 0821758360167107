package main

import "github.com/nsspam/nsspam/cmd"

func main() {
	cmd.Execute()
}
