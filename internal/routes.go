package internal

import (
	"net/http"
	"statekeeper/internal/controllers"
	"statekeeper/internal/providers"
)

func InitRoutes(stateController *controllers.StateController, limitsController *controllers.LimitsController, eventsController *controllers.EventsController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/state", http.HandlerFunc(stateController.GetState))
	routers.Post("/delta", http.HandlerFunc(stateController.ApplyDelta))
	routers.Get("/purchase/check", http.HandlerFunc(limitsController.CheckPurchase))
	routers.Post("/purchase", http.HandlerFunc(limitsController.RecordPurchase))
	routers.Get("/stage/check", http.HandlerFunc(limitsController.CheckStage))
	routers.Post("/stage/enter", http.HandlerFunc(limitsController.EnterStage))
	routers.Get("/events/phase", http.HandlerFunc(eventsController.Phase))
	routers.Post("/events/convert", http.HandlerFunc(eventsController.ConvertExpired))
	return routers
}
