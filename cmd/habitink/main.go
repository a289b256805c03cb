package main

import "habitink/cmd/habitink/cmd"

func main() {
	cmd.Execute()
}
