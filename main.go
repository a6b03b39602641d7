package main

import "order-upload/cmd"

func main() {
	cmd.Execute()
}
