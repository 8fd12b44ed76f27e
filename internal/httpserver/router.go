package httpserver

import (
	"context"
	"errors"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"ledger/internal/domain"
	customersvc "ledger/internal/service/customer"
	productsvc "ledger/internal/service/product"
	queuesvc "ledger/internal/service/queue"
)

type customerService interface {
	Create(ctx context.Context, in customersvc.Input) (*domain.Customer, error)
	Update(ctx context.Context, id string, in customersvc.Input) (*domain.Customer, error)
	Get(ctx context.Context, id string) (*domain.Customer, error)
	List(ctx context.Context, opts customersvc.ListOptions) ([]domain.Customer, error)
	Delete(ctx context.Context, id string) error
	AddBalance(ctx context.Context, id string, amount int64) (*domain.Customer, error)
	WithdrawBalance(ctx context.Context, id string, amount int64) (*domain.Customer, error)
}

type productService interface {
	Create(ctx context.Context, in productsvc.Input) (*domain.Product, error)
	Update(ctx context.Context, id string, in productsvc.Input) (*domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context, opts productsvc.ListOptions) ([]domain.Product, error)
	Delete(ctx context.Context, id string) error
}

type queueService interface {
	Create(ctx context.Context, in queuesvc.Input) (*domain.Queue, error)
	Update(ctx context.Context, id string, in queuesvc.Input) (*domain.Queue, error)
	Get(ctx context.Context, id string) (*domain.Queue, error)
	List(ctx context.Context, opts queuesvc.ListOptions) ([]domain.Queue, error)
	DefaultListOptions() queuesvc.ListOptions
	Delete(ctx context.Context, id string) error
	Preview(ctx context.Context, queueID string, in queuesvc.Input) (*queuesvc.Preview, error)
}

type idempotencyStore interface {
	Key(scope, key string) string
	Seen(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}

// Deps are the services the router exposes. Idempotency is optional.
type Deps struct {
	CustomerSvc customerService
	ProductSvc  productService
	QueueSvc    queueService
	Idempotency idempotencyStore

	// LanguageTag and CurrencySymbol are the defaults of the currency endpoints.
	LanguageTag    string
	CurrencySymbol string

	// CORSOrigins defaults to any origin.
	CORSOrigins []string
}

// buildRouter wires routes for the API.
func buildRouter(logger *zap.Logger, db *pgxpool.Pool, deps Deps) (*gin.Engine, error) {
	if deps.CustomerSvc == nil || deps.ProductSvc == nil || deps.QueueSvc == nil {
		return nil, errors.New("customer, product and queue services required")
	}

	router := gin.New()
	router.Use(requestID(), requestLogger(logger), gin.CustomRecovery(recoverer(logger)), cors.New(corsConfig(deps.CORSOrigins)))

	router.GET("/healthz", healthHandler)
	var ready pinger
	if db != nil {
		ready = db
	}
	router.GET("/readyz", readyHandler(ready))

	h := &handlers{deps: deps, logger: logger, now: time.Now}
	api := router.Group("/api/v1")

	customers := api.Group("/customers")
	customers.GET("", h.listCustomers)
	customers.POST("", h.createCustomer)
	customers.GET("/:id", h.getCustomer)
	customers.PUT("/:id", h.updateCustomer)
	customers.DELETE("/:id", h.deleteCustomer)
	customers.POST("/:id/balance/add", h.addBalance)
	customers.POST("/:id/balance/withdraw", h.withdrawBalance)

	products := api.Group("/products")
	products.GET("", h.listProducts)
	products.POST("", h.createProduct)
	products.GET("/:id", h.getProduct)
	products.PUT("/:id", h.updateProduct)
	products.DELETE("/:id", h.deleteProduct)

	queues := api.Group("/queues")
	queues.GET("", h.listQueues)
	queues.POST("", idempotent(deps.Idempotency, "queues", logger), h.createQueue)
	queues.POST("/preview", h.previewQueue)
	queues.GET("/:id", h.getQueue)
	queues.PUT("/:id", h.updateQueue)
	queues.DELETE("/:id", h.deleteQueue)

	api.GET("/currency/format", h.formatCurrency)
	api.GET("/currency/parse", h.parseCurrency)

	return router, nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization", requestIDHeader, idempotencyHeader)
	cfg.ExposeHeaders = []string{requestIDHeader}
	cfg.MaxAge = 12 * time.Hour
	return cfg
}

type handlers struct {
	deps   Deps
	logger *zap.Logger
	now    func() time.Time
}
