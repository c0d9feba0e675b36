package main

import "github.com/KaramelBytes/autoeda/cmd"

func main() {
	cmd.Execute()
}
