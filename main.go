package main

import "github.com/Yates-Labs/promptchain/cmd"

func main() {
	cmd.Execute()
}
