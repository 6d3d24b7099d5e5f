package main

import "github.com/Mohsinsiddi/dappai/cmd"

func main() {
	cmd.Execute()
}
