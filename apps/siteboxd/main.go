package main

import "github.com/sitebox/sitebox/apps/siteboxd/cmd"

func main() {
	cmd.Execute()
}
