package main

import "facegate.io/cmd"

func main() {
	cmd.Execute()
}
