package main

import "github.com/oshokin/door-lock/cmd/control-node/cmd"

func main() {
	cmd.Execute()
}
