package main

import (
	"amiigo/cmd/sugar"
	"amiigo/internal/common"
	"os"
)

func main() {
	loggerInstance := common.NewLogger("info", false)

	sugar.Execute(os.Exit, os.Args[1:], loggerInstance)
}
