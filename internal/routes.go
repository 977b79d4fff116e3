package internal

import (
	"net/http"
	"vehlog/internal/controllers"
	"vehlog/internal/providers"
)

func InitRoutes(apiController *controllers.ApiController, snapshotController *controllers.SnapshotController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	// working set
	routers.Post("/records", http.HandlerFunc(apiController.LoadRecords))
	routers.Get("/records", http.HandlerFunc(apiController.GetRecords))
	routers.Post("/record", http.HandlerFunc(apiController.AddRecord))
	routers.Post("/record/update", http.HandlerFunc(apiController.UpdateRecord))
	routers.Post("/record/delete", http.HandlerFunc(apiController.DeleteRecord))
	routers.Post("/records/clean", http.HandlerFunc(apiController.CleanRecords))

	// views
	routers.Get("/categories", http.HandlerFunc(apiController.GetCategories))
	routers.Get("/grouped", http.HandlerFunc(apiController.GetGrouped))
	routers.Get("/stats", http.HandlerFunc(apiController.GetStats))
	routers.Get("/validate", http.HandlerFunc(apiController.GetValidation))
	routers.Get("/periods", http.HandlerFunc(apiController.GetPeriods))
	routers.Get("/export", http.HandlerFunc(apiController.Export))

	// snapshots
	routers.Post("/snapshots", http.HandlerFunc(snapshotController.Create))
	routers.Get("/snapshots", http.HandlerFunc(snapshotController.List))
	routers.Get("/snapshot", http.HandlerFunc(snapshotController.Get))
	routers.Get("/snapshot/current", http.HandlerFunc(snapshotController.Current))
	routers.Get("/snapshots/history", http.HandlerFunc(snapshotController.History))
	routers.Post("/snapshot/update", http.HandlerFunc(snapshotController.Update))
	routers.Post("/snapshot/rename", http.HandlerFunc(snapshotController.Rename))
	routers.Post("/snapshot/delete", http.HandlerFunc(snapshotController.Delete))
	routers.Post("/snapshot/load", http.HandlerFunc(snapshotController.Load))
	routers.Post("/snapshot/transform", http.HandlerFunc(snapshotController.Transform))
	routers.Get("/snapshot/export", http.HandlerFunc(snapshotController.Export))
	routers.Post("/snapshots/clear", http.HandlerFunc(snapshotController.Clear))
	routers.Get("/compare", http.HandlerFunc(snapshotController.Compare))
	routers.Get("/search", http.HandlerFunc(snapshotController.Search))
	routers.Get("/snapshots/stats", http.HandlerFunc(snapshotController.Stats))
	return routers
}
