package main

import (
	"log"

	"github.com/m3rciful/faqbot/core/cmd"
)

func main() {
	if err := cmd.Run(cmd.Options{
		ConfigEnvVar:      "CONFIG_PATH",
		DefaultConfigPath: "config.yaml",
	}); err != nil {
		log.Fatal(err)
	}
}
