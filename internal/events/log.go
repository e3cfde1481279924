package events

import (
	"log/slog"

	"github.com/dohr-michael/ozzie-core/internal/corelog"
)

func logger() *slog.Logger { return corelog.For("events") }
