package commands

import (
	"os"

	"gallery/pkg/logger"
)

func ExitOnError(err error) {
	logger.Error("gallery error", "err", err.Error())
	os.Exit(1)
}
