package main

import "github.com/notargets/multimat/cmd"

func main() {
	cmd.Execute()
}
