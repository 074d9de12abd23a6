package main

import "ddd-skeleton/cmd"

func main() {
	cmd.Execute()
}
