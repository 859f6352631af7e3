package commands

import "fmt"

const usage = `gallery %s

usage:
  %s run <config.yml>      serve the HTTP API and process jobs
  %s worker <config.yml>   process jobs only
  %s version               print the version
  %s help                  show this message
`

func HandleHelp(args []string) {
	name := "gallery"
	if len(args) > 0 {
		name = args[0]
	}

	fmt.Printf(usage, "media ingestion service", name, name, name, name) //nolint
}
