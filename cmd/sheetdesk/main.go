package main

import "github.com/sheetdesk/sheetdesk/cmd/sheetdesk/commands"

func main() {
	commands.Execute()
}
