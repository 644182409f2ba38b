package router

import (
	"net/http"

	authsvc "dirtex-backend/internal/application/auth"
	compsvc "dirtex-backend/internal/application/companies"
	discsvc "dirtex-backend/internal/application/discovery"
	fulfillsvc "dirtex-backend/internal/application/fulfillment"
	lesvc "dirtex-backend/internal/application/listingevents"
	listsvc "dirtex-backend/internal/application/listings"
	"dirtex-backend/internal/config"
	"dirtex-backend/internal/infrastructure/database"
	authhandler "dirtex-backend/internal/interfaces/handlers/auth"
	comphandler "dirtex-backend/internal/interfaces/handlers/companies"
	dischandler "dirtex-backend/internal/interfaces/handlers/discovery"
	fulfillhandler "dirtex-backend/internal/interfaces/handlers/fulfillment"
	healthhandler "dirtex-backend/internal/interfaces/handlers/health"
	listhandler "dirtex-backend/internal/interfaces/handlers/listings"
	"dirtex-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type gormDBPinger struct {
	db *gorm.DB
}

func (g *gormDBPinger) Ping() error {
	if g == nil || g.db == nil {
		return nil
	}
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
	})

	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
		DevPassword:   cfg.DevPassword,
	}))

	sessionHandler, redisClient, err := middleware.Session(middleware.SessionConfig{
		Secret:            cfg.SessionSecret,
		RedisURL:          cfg.RedisURL,
		AllowCrossSiteDev: cfg.AllowCrossSiteDev,
		IsProduction:      cfg.Env == "production",
	})
	if err != nil {
		return nil, nil, nil, err
	}
	rdb := redisClient
	app.Use(sessionHandler)
	app.Use(middleware.HealthMarker(rdb))
	app.Use(middleware.ResponseFormatter())
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())

	hh := &healthhandler.Handlers{
		Rdb:            rdb,
		DB:             nil,
		HealthAdminKey: cfg.HealthAdminKey,
	}
	app.Get("/reset", hh.Reset)
	app.Get("/health/json", hh.JSON)
	app.Get("/health/errors", hh.Errors)

	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		var errDB error
		db, errDB = database.Open(cfg.DatabaseURL)
		if errDB != nil {
			return nil, nil, nil, errDB
		}
		hh.DB = &gormDBPinger{db: db}
	}

	sessionCfg := middleware.SessionConfig{
		Secret:            cfg.SessionSecret,
		RedisURL:          cfg.RedisURL,
		AllowCrossSiteDev: cfg.AllowCrossSiteDev,
		IsProduction:      cfg.Env == "production",
	}

	var userFinder authsvc.UserFinder
	if db != nil {
		userFinder = &authsvc.GormUserFinder{DB: db}
	}
	ah := &authhandler.Handlers{
		UserFinder: userFinder,
		Rdb:        rdb,
		Config:     sessionCfg,
	}
	authGroup := app.Group("/api/v1/auth")
	authGroup.Post("/login", ah.Login)
	authGroup.Get("/me", ah.Me)
	authGroup.Delete("/logout", ah.Logout)

	if db != nil && rdb != nil {
		// Listings + events
		ls := &listsvc.Service{DB: db}
		les := &lesvc.Service{DB: db}
		lh := &listhandler.Handlers{Service: ls, Events: les}
		lg := app.Group("/api/v1/listings", middleware.RequireAuth())
		lg.Post("/create-listing", lh.CreateListing)
		lg.Put("/edit-listing/:listing_id", lh.EditListing)
		lg.Post("/delete-listing/:listing_id", lh.DeleteListing)
		lg.Get("/get-my-listings", lh.GetMyListings)
		lg.Get("/get-my-active-listings", lh.GetMyActiveListings)
		lg.Get("/get-my-completed-listings", lh.GetMyCompletedListings)
		lg.Get("/get-listing/:listing_id", lh.GetListingByID)
		lg.Get("/get-listing-events/:listing_id", lh.GetListingEvents)

		// Fulfillment
		fs := &fulfillsvc.Service{DB: db}
		fh := &fulfillhandler.Handlers{Service: fs}
		fg := app.Group("/api/v1/fulfillment", middleware.RequireAuth())
		fg.Post("/complete-listing", fh.CompleteListing)

		// Discovery
		ds := &discsvc.Service{DB: db}
		dh := &dischandler.Handlers{Service: ds, Config: cfg}
		dg := app.Group("/api/v1/discovery", middleware.RequireAuth())
		dg.Get("/feed", dh.Feed)

		// Companies
		cs := &compsvc.Service{DB: db}
		ch := &comphandler.Handlers{Service: cs}
		cg := app.Group("/api/v1/companies", middleware.RequireAuth())
		cg.Get("/get-companies", ch.GetCompanies)
		cg.Post("/create-company", ch.CreateCompany)
	}

	return app, db, rdb, nil
}

func Handler(app *fiber.App) http.Handler {
	return adaptor.FiberApp(app)
}
