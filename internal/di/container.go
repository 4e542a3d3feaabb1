package di

import (
	"go.uber.org/zap"

	"todo-backend/internal/observability"
	"todo-backend/internal/repository"
	"todo-backend/internal/router"
	"todo-backend/internal/service/todo"
	"todo-backend/pkg/config"
)

// Container holds all application dependencies
type Container struct {
	Config     *config.Config
	Logger     *zap.Logger
	Repository repository.TodoRepository
	Service    todo.Service
	Collector  *observability.Collector
	Router     *router.Router
}
