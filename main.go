package main

import (
	"github.com/jsphweid/keycoach/cmd"
)

func main() {
	cmd.Execute()
}
