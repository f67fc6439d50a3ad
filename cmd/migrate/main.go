package main

import (
	"estatehub/config"
	"estatehub/helper"
	"estatehub/shared/logger"
	"os"

	"github.com/rs/zerolog/log"
)

const argLength = 2

func main() {
	logger.InitLogger()

	if len(os.Args) < argLength {
		log.Fatal().Err(helper.ErrUnknownAction).Msg("Migration action is required")
	}

	cfg := config.Get()

	if err := helper.Run(cfg, helper.Action(os.Args[1])); err != nil {
		log.Fatal().Err(err).Str("action", os.Args[1]).Msg("Migration failed")
	}
}
