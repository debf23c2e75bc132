package internal

import (
	"freegames/internal/controllers"
	"freegames/internal/providers"
	"freegames/internal/structures"
	"net/http"
)

func InitRoutes(apiController *controllers.ApiController, conf *structures.Config) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/scopes", http.HandlerFunc(apiController.GetScopes))
	routers.Get("/status", http.HandlerFunc(apiController.GetStatus))
	routers.Post("/settings", http.HandlerFunc(apiController.UpdateSettings))
	routers.Post("/check", http.HandlerFunc(apiController.Check))
	return routers
}
