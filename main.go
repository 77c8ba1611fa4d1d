package main

import "github.com/VoxDroid/themr/cmd"

func main() {
	cmd.Execute()
}
