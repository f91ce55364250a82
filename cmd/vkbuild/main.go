package main

import "github.com/vkendeavour/vkbuild/cmd/vkbuild/internal"

func main() {
	internal.Execute()
}
