package main

import "github.com/kozaktomas/profile-finder/cmd"

func main() {
	cmd.Execute()
}
