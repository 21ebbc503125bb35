package httpserver

import (
	"context"
	"log"

	"farmpos/internal/domain"
	"farmpos/internal/pricing"
	"farmpos/internal/service/catalog"
	"farmpos/internal/service/checkout"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type catalogService interface {
	List(ctx context.Context) ([]catalog.ProductWithDiscount, error)
	Get(ctx context.Context, id string) (*catalog.ProductWithDiscount, error)
}

type cartService interface {
	Add(ctx context.Context, terminalID string, product domain.Product, variantID *string, quantity int, discount *domain.Discount) error
	UpdateQuantity(ctx context.Context, terminalID, productID string, variantID *string, delta int) error
	SetQuantity(ctx context.Context, terminalID, productID string, variantID *string, value int) error
	Remove(ctx context.Context, terminalID, productID string, variantID *string) error
	Clear(ctx context.Context, terminalID string) error
	Lines(ctx context.Context, terminalID string) ([]domain.LineItem, error)
	Totals(ctx context.Context, terminalID string) (pricing.Totals, error)
}

type checkoutService interface {
	Settle(ctx context.Context, in checkout.Input) (*checkout.Receipt, error)
}

type viewedService interface {
	Mark(ctx context.Context, terminalID string, product domain.Product) error
	Recent(ctx context.Context, terminalID string) ([]domain.Product, error)
}

type profileRepo interface {
	GetByUserID(ctx context.Context, userID string) (*domain.Profile, error)
}

// Deps collects the services the router exposes.
type Deps struct {
	CatalogSvc  catalogService
	CartSvc     cartService
	CheckoutSvc checkoutService
	ViewedSvc   viewedService
	ProfileRepo profileRepo
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, rdb *redis.Client, deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, headerStaffID, headerTerminalID)
	router.Use(cors.New(corsCfg))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db, rdb))

	router.GET("/products", listProductsHandler(deps.CatalogSvc))
	router.GET("/products/:id", getProductHandler(deps.CatalogSvc, deps.ViewedSvc))
	router.GET("/viewed", requireTerminal(), recentlyViewedHandler(deps.ViewedSvc))

	staff := router.Group("/", staffMiddleware(deps.ProfileRepo), requireTerminal())
	{
		staff.GET("/cart", getCartHandler(deps.CartSvc))
		staff.POST("/cart/items", addCartItemHandler(deps.CartSvc, deps.CatalogSvc))
		staff.PATCH("/cart/items", updateCartItemHandler(deps.CartSvc))
		staff.DELETE("/cart/items", removeCartItemHandler(deps.CartSvc))
		staff.DELETE("/cart", clearCartHandler(deps.CartSvc))
		staff.POST("/checkout", checkoutHandler(deps.CheckoutSvc))
	}

	return router
}
