package main

import "github.com/supporthub/support-desk/cmd"

func main() {
	cmd.Execute()
}
