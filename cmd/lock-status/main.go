package main

import "github.com/oshokin/door-lock/cmd/lock-status/cmd"

func main() {
	cmd.Execute()
}
