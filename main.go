package main

import "github.com/shaharia-lab/notifyd/cmd"

func main() {
	cmd.Execute()
}
