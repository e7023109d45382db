// Command staticify rewrites Java sources with refactoring recipes.
package main

import "martianoff/staticify/cmd/staticify/commands"

func main() {
	commands.Execute()
}
