package handler

import (
	"gemhub/internal/app/lobby"
	"gemhub/internal/app/reaction"
	"gemhub/internal/app/session"
	"gemhub/internal/configs"
)

type AppDeps struct {
	Config     *configs.AppConfig
	Registry   *lobby.Registry
	Hub        *session.Hub
	Dispatcher *reaction.Dispatcher
}
