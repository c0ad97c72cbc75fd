package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/jhoicas/resto-ledger/internal/application/ledger"
	"github.com/jhoicas/resto-ledger/internal/application/timeline"
	"github.com/jhoicas/resto-ledger/internal/domain/repository"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Adjustments *ledger.AdjustmentService
	Recorder    *ledger.Recorder
	Timeline    *timeline.UseCase
	StockRepo   repository.StockLevelRepository
	JWTSecret   string
}

// Router registra las rutas de la API. Todo el núcleo es protegido: cada
// petición llega con el contexto de identidad resuelto en el token.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	// Las escrituras llevan rate limit por cliente; las lecturas no.
	writeLimiter := limiter.New(limiter.Config{
		Max:        60,
		Expiration: time.Minute,
	})

	stockHandler := NewStockHandler(deps.Adjustments, deps.Recorder, deps.StockRepo)
	stock := api.Group("/stock")
	stock.Post("/add", writeLimiter, stockHandler.AddStock)
	stock.Post("/deduct", writeLimiter, stockHandler.DeductStock)
	stock.Get("/current", stockHandler.GetCurrentStock)
	stock.Get("/low", stockHandler.GetLowStock)

	timelineHandler := NewTimelineHandler(deps.Timeline)
	inv := api.Group("/inventory")
	inv.Post("/transactions", writeLimiter, stockHandler.RecordTransaction)
	inv.Get("/timeline", timelineHandler.GetTimeline)
	inv.Get("/items/:item_id/timeline", timelineHandler.GetItemTimeline)
	inv.Get("/timeline/stats", timelineHandler.GetTimelineStats)
}
