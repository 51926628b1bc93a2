package main

import "github.com/OriD-19/fpsmeter/cmd"

func main() {
	cmd.Execute()
}
