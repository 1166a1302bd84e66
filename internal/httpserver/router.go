package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bottlecraft/internal/configurator"
	"bottlecraft/internal/domain"
	cartsvc "bottlecraft/internal/service/cart"
	catalogsvc "bottlecraft/internal/service/catalog"
	"bottlecraft/internal/upsell"
)

type catalogService interface {
	List() []catalogsvc.FamilySummary
	Get(key string) (*domain.Family, error)
	Quote(key string, choices configurator.Choices) (catalogsvc.Quote, error)
	Products() []domain.Product
	Product(keyOrSKU string) (*domain.Product, error)
}

type cartService interface {
	Create(ctx context.Context, in cartsvc.CreateInput) (*domain.Cart, error)
	Summary(ctx context.Context, id string) (cartsvc.Summary, error)
	Summarize(c *domain.Cart) cartsvc.Summary
	Update(ctx context.Context, id string, in cartsvc.UpdateInput) (*domain.Cart, error)
	AddProduct(ctx context.Context, id string, in cartsvc.ItemInput) (*domain.Cart, error)
	AddConfigured(ctx context.Context, id string, in cartsvc.ConfiguredInput) (*domain.Cart, error)
	ChangeQuantity(ctx context.Context, id string, index, quantity int) (*domain.Cart, error)
	Remove(ctx context.Context, id string, index int) (*domain.Cart, error)
	Delete(ctx context.Context, id string) error
	Suggestions(ctx context.Context, id string) ([]upsell.Suggestion, error)
}

// Deps are the services the handlers call.
type Deps struct {
	CatalogSvc catalogService
	CartSvc    cartService
}

// buildRouter wires routes for the API.
func buildRouter(logger *zap.Logger, deps Deps, opts Options) (*gin.Engine, error) {
	if deps.CatalogSvc == nil || deps.CartSvc == nil {
		return nil, errors.New("catalog and cart services required")
	}
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(requestLogger(logger), gin.Recovery())
	if len(opts.CORSAllowedOrigins) > 0 {
		cfg := corsConfig(opts.CORSAllowedOrigins)
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		router.Use(cors.New(cfg))
	}

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(deps.CatalogSvc))

	families := &familyHandler{svc: deps.CatalogSvc}
	router.GET("/families", families.list)
	router.GET("/families/:familyKey", families.get)
	router.POST("/families/:familyKey/quote", families.quote)
	router.GET("/products", families.products)
	router.GET("/products/:productKey", families.product)

	carts := &cartHandler{svc: deps.CartSvc}
	router.POST("/carts", carts.create)
	router.GET("/carts/:cartId", carts.get)
	router.POST("/carts/:cartId", carts.update)
	router.DELETE("/carts/:cartId", carts.delete)
	router.POST("/carts/:cartId/items", carts.addItem)
	router.POST("/carts/:cartId/configured-items", carts.addConfigured)
	router.PATCH("/carts/:cartId/items/:index", carts.changeQuantity)
	router.DELETE("/carts/:cartId/items/:index", carts.removeItem)
	router.GET("/carts/:cartId/suggestions", carts.suggestions)

	return router, nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	cfg.AllowOrigins = origins
	return cfg
}

// requestLogger logs one line per request once the handler chain is done.
func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.String("uri", c.Request.URL.RequestURI()),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		switch {
		case status >= http.StatusInternalServerError:
			logger.Error("request", fields...)
		case status >= http.StatusBadRequest:
			logger.Warn("request", fields...)
		default:
			logger.Info("request", fields...)
		}
	}
}

// writeError maps domain errors onto status codes.
func writeError(c *gin.Context, err error) {
	_ = c.Error(err)
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrLineNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrIncompleteSelection):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrUnavailable):
		status = http.StatusConflict
	}
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	c.JSON(status, gin.H{"statusCode": status, "message": msg})
}
