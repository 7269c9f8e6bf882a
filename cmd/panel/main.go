package main

import "marketplace-admin/cmd/panel/commands"

func main() {
	commands.Execute()
}
