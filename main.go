package main

import "github.com/raise3/raise3/cmd"

func main() {
	cmd.Execute()
}
