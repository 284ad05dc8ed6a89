package handler

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"hostpanel/internal/handler/api"
	"hostpanel/internal/handler/middleware"
	"hostpanel/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

// promocodePattern covers both coupon codes and gift codes; the dto layer
// uppercases before the use case sees the value.
var promocodePattern = regexp.MustCompile(`^[A-Za-z0-9\-]{3,64}$`)

func NewRouter(
	engine *gin.Engine,
	cfg config.Config,
	authHandler *api.AuthHandler,
	purchaseHandler *api.PurchaseHandler,
	giftHandler *api.GiftHandler,
	entitlementHandler *api.EntitlementHandler,
	authMiddleware *middleware.AuthMiddleware,
	rateLimiter *middleware.RateLimiter,
) {
	RegisterValidators()
	setupMiddleware(engine, cfg)
	setupRoutes(engine, authHandler, purchaseHandler, giftHandler, entitlementHandler, authMiddleware, rateLimiter)
}

// RegisterValidators installs the custom binding validators on gin's
// singleton validator. Safe to call more than once.
func RegisterValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("promocode", func(fl validator.FieldLevel) bool {
			return promocodePattern.MatchString(strings.TrimSpace(fl.Field().String()))
		})
	}
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(nil, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(
	engine *gin.Engine,
	authHandler *api.AuthHandler,
	purchaseHandler *api.PurchaseHandler,
	giftHandler *api.GiftHandler,
	entitlementHandler *api.EntitlementHandler,
	authMiddleware *middleware.AuthMiddleware,
	rateLimiter *middleware.RateLimiter,
) {
	engine.GET("/health", healthCheck)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		auth := apiGroup.Group("/auth")
		{
			addRoutes(auth, []route{
				{Method: http.MethodPost, Path: "/login", Handler: authHandler.Login},
			})

			authRequired := auth.Group("")
			authRequired.Use(authMiddleware.RequireAuth())
			addRoutes(authRequired, []route{
				{Method: http.MethodPost, Path: "/logout", Handler: authHandler.Logout},
				{Method: http.MethodGet, Path: "/me", Handler: authHandler.Me},
			})
		}

		apiGroup.GET("/plans", entitlementHandler.ListPlans)

		authed := apiGroup.Group("")
		authed.Use(authMiddleware.RequireAuth())
		{
			addRoutes(authed, []route{
				{Method: http.MethodGet, Path: "/entitlements", Handler: entitlementHandler.GetEntitlements},
				{Method: http.MethodGet, Path: "/purchase", Handler: purchaseHandler.ListPayments},
				{Method: http.MethodGet, Path: "/purchase/:key", Handler: purchaseHandler.GetPayment},
			})

			purchase := authed.Group("/purchase")
			purchase.Use(rateLimiter.LimitRedeem("purchase"))
			addRoutes(purchase, []route{
				{Method: http.MethodPost, Path: "", Handler: purchaseHandler.BeginPurchase},
				{Method: http.MethodPost, Path: "/capture", Handler: purchaseHandler.CapturePurchase},
			})

			gift := authed.Group("/gift")
			{
				redeem := gift.Group("")
				redeem.Use(rateLimiter.LimitRedeem("gift"))
				addRoutes(redeem, []route{
					{Method: http.MethodPost, Path: "/redeem", Handler: giftHandler.RedeemGiftCode},
				})

				admin := gift.Group("")
				admin.Use(authMiddleware.RequireAdmin())
				addRoutes(admin, []route{
					{Method: http.MethodPost, Path: "/create", Handler: giftHandler.CreateGiftCode},
				})
			}
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
