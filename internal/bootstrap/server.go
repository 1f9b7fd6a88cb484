package bootstrap

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	app "github.com/dev-noaman/arafatvisitor-host-import/internal/application/host"
	"github.com/dev-noaman/arafatvisitor-host-import/internal/infrastructure/repository"
	httpecho "github.com/dev-noaman/arafatvisitor-host-import/internal/interfaces/http/echo"
)

func NewHTTPServer(db *gorm.DB, pool *pgxpool.Pool) *echo.Echo {
	server := echo.New()
	server.HideBanner = true

	server.Use(middleware.Recover())
	server.Use(middleware.RequestID())
	server.Use(middleware.Logger())
	server.Use(middleware.BodyLimit("25M"))

	importRepo := repository.NewHostImportRepository(db, pool)
	reconciler := app.NewReconciler(importRepo)
	importHosts := app.NewImportHosts(reconciler)
	importJobRepo := repository.NewImportJobRepository(db)
	startImport := app.NewStartImport(importJobRepo)
	importHandler := httpecho.NewImportHandler(importHosts, startImport)
	hostQueryRepo := repository.NewHostQueryRepository(db)
	getHostByID := app.NewGetHostByID(hostQueryRepo)
	hostHandler := httpecho.NewHostHandler(getHostByID)

	httpecho.RegisterRoutes(server, importHandler, hostHandler)

	server.GET("/healthz", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	return server
}
