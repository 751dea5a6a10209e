package main

import "github.com/oshokin/alarm-blackout/cmd/blackout-reconcile/cmd"

func main() {
	cmd.Execute()
}
