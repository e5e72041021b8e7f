package main

import "github.com/hurou927/pg-parting/cmd"

func main() {
	cmd.Execute()
}
