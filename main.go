// Command pocketdesk is a terminal calculator, task list and weather lookup.
package main

import "github.com/twiced-technology-gmbh/pocketdesk/cmd"

func main() {
	cmd.Execute()
}
