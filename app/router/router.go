package router

import (
	"github.com/beego/beego/v2/server/web"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aihub/docqa-go/app/controllers"
	"github.com/aihub/docqa-go/internal/config"
	"github.com/aihub/docqa-go/internal/services"
)

// Init registers all routes. Must be called after config is loaded.
func Init(qaService *services.QAService) {
	web.Router("/", &controllers.RootController{}, "get:Index")
	web.Router("/health", &controllers.HealthController{}, "get:Health")

	documentController := controllers.NewDocumentController(qaService)
	web.Router("/api/documents/upload", documentController, "post:Upload")

	qaController := controllers.NewQAController(qaService)
	web.Router("/api/qa/ask", qaController, "post:Ask")

	if config.AppConfig.Monitor.Enabled {
		web.Handler("/metrics", promhttp.Handler())
	}
}
