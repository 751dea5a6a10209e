package main

import "github.com/oshokin/alarm-blackout/cmd/blackout-server/cmd"

func main() {
	cmd.Execute()
}
