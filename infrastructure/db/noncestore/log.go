package noncestore

import (
	"github.com/talkcoin/talkminer/infrastructure/logger"
)

var log, _ = logger.Get(logger.SubsystemTags.NSTR)
