package main

import "gateway-manager/cmd"

func main() {
	cmd.Execute()
}
