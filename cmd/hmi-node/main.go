package main

import "github.com/oshokin/door-lock/cmd/hmi-node/cmd"

func main() {
	cmd.Execute()
}
