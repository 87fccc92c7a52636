package main

import "github.com/KaramelBytes/ecomm-insights/cmd"

func main() {
	cmd.Execute()
}
