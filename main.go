package main

import "musicvault/cmd"

func main() {
	cmd.Execute()
}
