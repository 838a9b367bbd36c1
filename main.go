package main

import (
	cmd "github.com/recallio/recall/cmd/recall"
	"github.com/recallio/recall/internal"
)

var log = internal.GetLogger()

func main() {
	log.Info("Starting recall")
	cmd.Execute()
}
