package main

import "gitlab.com/stephen-fox/memkit/cmd/memkit/cmd"

func main() {
	cmd.Execute()
}
