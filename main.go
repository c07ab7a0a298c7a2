package main

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"boqtracker/boq"
	"boqtracker/collections"
	"boqtracker/commands"
	"boqtracker/config"
	"boqtracker/handlers"
	"boqtracker/services"
)

func main() {
	app := pocketbase.New()

	settings := config.Defaults()
	config.BindFlags(app.RootCmd.PersistentFlags(), &settings)
	app.RootCmd.AddCommand(commands.NewDemoCommand(&settings))

	registry := boq.NewRegistry()

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		if err := settings.Validate(); err != nil {
			return err
		}

		// Create collections and seed data on startup
		collections.Setup(app)
		projectIDs, err := collections.Seed(app)
		if err != nil {
			log.Printf("Warning: seed data failed: %v", err)
		}

		svc := services.NewBOQService(services.BOQServiceOptions{
			Registry:   registry,
			Projects:   services.PBProjectDirectory{App: app},
			Purchasing: &services.PBPurchaseRequestCreator{App: app},
			Settings:   settings,
			Logger:     app.Logger(),
		})
		if settings.SeedDemo && len(projectIDs) > 0 {
			if err := services.SeedDemoBOQs(svc, projectIDs, settings.DefaultActor); err != nil {
				log.Printf("Warning: demo BOQs failed: %v", err)
			}
		}

		se.Router.BindFunc(handlers.ActorMiddleware(settings.DefaultActor))

		// ── BOQ collection ───────────────────────────────────────
		se.Router.GET("/boqs", handlers.HandleBOQList(svc))
		se.Router.GET("/boqs/stats", handlers.HandleBOQStats(svc))
		se.Router.POST("/boqs", handlers.HandleBOQCreate(svc))

		// ── Line items ──────────────────────────────────────────
		// import must be registered before {itemId}
		se.Router.POST("/boqs/{id}/items/import", handlers.HandleItemImport(svc))
		se.Router.POST("/boqs/{id}/items", handlers.HandleItemAdd(svc))
		se.Router.PATCH("/boqs/{id}/items/{itemId}", handlers.HandleItemUpdate(svc))
		se.Router.DELETE("/boqs/{id}/items/{itemId}", handlers.HandleItemDelete(svc))

		// ── Workflow ────────────────────────────────────────────
		se.Router.POST("/boqs/{id}/submit", handlers.HandleSubmit(svc))
		se.Router.POST("/boqs/{id}/review", handlers.HandleBeginReview(svc))
		se.Router.POST("/boqs/{id}/approve", handlers.HandleApprove(svc))
		se.Router.POST("/boqs/{id}/reject", handlers.HandleReject(svc))

		// ── Comments, attachments, copies ───────────────────────
		se.Router.POST("/boqs/{id}/duplicate", handlers.HandleDuplicate(svc))
		se.Router.POST("/boqs/{id}/comments", handlers.HandleAddComment(svc))
		se.Router.POST("/boqs/{id}/attachments", handlers.HandleAddAttachment(svc))

		// ── Downstream purchase request ─────────────────────────
		se.Router.POST("/boqs/{id}/purchase-request", handlers.HandlePurchaseRequest(svc))

		// ── Export ──────────────────────────────────────────────
		se.Router.GET("/boqs/{id}/export/excel", handlers.HandleBOQExportExcel(svc))
		se.Router.GET("/boqs/{id}/export/pdf", handlers.HandleBOQExportPDF(svc))

		// BOQ view (must be after specific /boqs/{id}/* routes)
		se.Router.GET("/boqs/{id}", handlers.HandleBOQView(svc))

		se.Router.GET("/", func(e *core.RequestEvent) error {
			return e.Redirect(http.StatusFound, "/boqs")
		})

		return se.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
