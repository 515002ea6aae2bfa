package main

import "github.com/KaramelBytes/incidentscope-cli/cmd"

func main() {
	cmd.Execute()
}
