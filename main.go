package main

import "transease/cmd"

func main() {
	cmd.Execute()
}
