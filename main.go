package main

import "github.com/emukit/ps2ipc/cmd"

func main() {
	cmd.Execute()
}
