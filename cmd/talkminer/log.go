package main

import (
	"github.com/talkcoin/talkminer/infrastructure/logger"
	"github.com/talkcoin/talkminer/util/panics"
)

var (
	log, _ = logger.Get(logger.SubsystemTags.MINR)
	spawn  = panics.GoroutineWrapperFunc(log)
)

func initLog(cfg *config) {
	logger.InitLog(cfg.logFile(), cfg.errLogFile())
}
