package main

import "github.com/quanticsoul4772/groqchat/cmd"

func main() {
	cmd.Execute()
}
