package main

import (
	"os"

	"github.com/mj1618/findui/cmd"
	_ "github.com/mj1618/findui/internal/platform/x11"
)

func main() {
	os.Exit(cmd.Execute())
}
