package api

import (
	"context"
	"net/http"

	"github.com/Domenick1991/boatbooking/internal/auth"
	"github.com/Domenick1991/boatbooking/internal/domain"
	"github.com/Domenick1991/boatbooking/internal/service/boats"
	"github.com/Domenick1991/boatbooking/internal/service/booking"
	"github.com/Domenick1991/boatbooking/internal/service/catalog"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Services struct {
	Bookings  booking.BookingUseCase
	Boats     boats.BoatUseCase
	Locations catalog.CatalogUseCase[domain.Location]
	BoatTypes catalog.CatalogUseCase[domain.BoatType]
	Captains  catalog.CatalogUseCase[domain.Captain]
	Owners    catalog.CatalogUseCase[domain.Owner]
	Amenities catalog.CatalogUseCase[domain.Amenity]
	Addons    catalog.CatalogUseCase[domain.Addon]
	FAQs      catalog.CatalogUseCase[domain.FAQ]
}

type RouterConfig struct {
	AllowedOrigins []string
	// Health reports readiness of the backing stores; nil means always healthy.
	Health func(ctx context.Context) error
}

func NewRouter(cfg RouterConfig, verifier *auth.Verifier, svc Services) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	if len(cfg.AllowedOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	router.Use(cors.New(corsCfg))

	router.GET("/healthz", func(c *gin.Context) {
		if cfg.Health != nil {
			if err := cfg.Health(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api", verifier.Authenticate())
	apiGroup.GET("/auth/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"actor": auth.ActorFromContext(c)})
	})

	boatHandler := NewBoatHandler(svc.Boats)
	boatHandler.Register(apiGroup.Group("/boats"))

	catalogGroup := apiGroup.Group("/catalog")
	NewCatalogHandler(svc.Locations).Register(catalogGroup.Group("/locations"))
	NewCatalogHandler(svc.BoatTypes).Register(catalogGroup.Group("/boat-types"))
	NewCatalogHandler(svc.Amenities).Register(catalogGroup.Group("/amenities"))
	NewCatalogHandler(svc.Addons).Register(catalogGroup.Group("/addons"))
	NewCatalogHandler(svc.FAQs).Register(catalogGroup.Group("/faqs"))

	admin := apiGroup.Group("/admin", auth.RequireActor())
	NewBookingHandler(svc.Bookings).Register(admin.Group("/bookings"))
	boatHandler.RegisterAdmin(admin.Group("/boats"))
	NewCatalogHandler(svc.Locations).RegisterAdmin(admin.Group("/locations"))
	NewCatalogHandler(svc.BoatTypes).RegisterAdmin(admin.Group("/boat-types"))
	NewCatalogHandler(svc.Captains).RegisterAdmin(admin.Group("/captains"))
	NewCatalogHandler(svc.Owners).RegisterAdmin(admin.Group("/owners"))
	NewCatalogHandler(svc.Amenities).RegisterAdmin(admin.Group("/amenities"))

	return router
}
