package cli

import (
	"fmt"
	"log"

	"github.com/attarhouse/attarhouse-api/internal/application/service"
	"github.com/attarhouse/attarhouse-api/internal/config"
	"github.com/attarhouse/attarhouse-api/internal/domain/entity"
	domainRepo "github.com/attarhouse/attarhouse-api/internal/domain/repository"
	"github.com/attarhouse/attarhouse-api/internal/infrastructure/database"
	"github.com/attarhouse/attarhouse-api/internal/infrastructure/memory"
	"github.com/attarhouse/attarhouse-api/internal/infrastructure/repository"
	"github.com/attarhouse/attarhouse-api/internal/infrastructure/seed"
	"github.com/attarhouse/attarhouse-api/internal/presentation/http/handler"
	"github.com/attarhouse/attarhouse-api/internal/presentation/http/routes"
	"github.com/attarhouse/attarhouse-api/pkg/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// backend is the set of repositories behind one storage driver
type backend struct {
	transactor   domainRepo.Transactor
	orders       domainRepo.OrderRepository
	orderItems   domainRepo.OrderItemRepository
	catalog      domainRepo.CatalogRepository
	prices       domainRepo.PriceListRepository
	stock        domainRepo.StockRepository
	parties      domainRepo.PartyRepository
	transactions domainRepo.TransactionRepository
	settings     domainRepo.SettingsRepository
	idempotency  domainRepo.IdempotencyRepository
	close        func() error
}

// openBackend connects the configured driver, migrates it and loads the
// seed fixture when one is configured
func openBackend(cfg *config.Config) (*backend, error) {
	var dataset *seed.Dataset
	if cfg.Seed.File != "" {
		ds, err := seed.LoadFile(cfg.Seed.File)
		if err != nil {
			return nil, err
		}
		dataset = ds
	}

	switch cfg.Database.Driver {
	case config.DriverMemory:
		log.Println("Using in-memory storage; data is lost on exit")
		store := memory.NewStore()
		store.PutSetting(entity.SettingKeyGSTRate, cfg.Tax.DefaultGSTRate.String())
		if dataset != nil {
			store.Load(dataset)
		}
		return memoryBackend(store), nil

	case config.DriverPostgres:
		db, err := database.NewPostgresDB(&cfg.Database, cfg.App.Debug)
		if err != nil {
			return nil, err
		}
		if err := database.AutoMigrate(db); err != nil {
			return nil, err
		}
		if err := database.SeedDefaultData(db, cfg.Tax.DefaultGSTRate); err != nil {
			log.Printf("Warning: Failed to seed default data: %v", err)
		}
		if dataset != nil {
			if err := database.SeedDataset(db, dataset); err != nil {
				return nil, fmt.Errorf("seeding %s: %w", cfg.Seed.File, err)
			}
		}
		return postgresBackend(db), nil
	}

	return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Database.Driver)
}

func memoryBackend(store *memory.Store) *backend {
	return &backend{
		transactor:   store,
		orders:       memory.NewOrderRepository(store),
		orderItems:   memory.NewOrderItemRepository(store),
		catalog:      memory.NewCatalogRepository(store),
		prices:       memory.NewPriceListRepository(store),
		stock:        memory.NewStockRepository(store),
		parties:      memory.NewPartyRepository(store),
		transactions: memory.NewTransactionRepository(store),
		settings:     memory.NewSettingsRepository(store),
		idempotency:  memory.NewIdempotencyRepository(store),
		close:        func() error { return nil },
	}
}

func postgresBackend(db *gorm.DB) *backend {
	return &backend{
		transactor:   repository.NewTransactor(db),
		orders:       repository.NewOrderRepository(db),
		orderItems:   repository.NewOrderItemRepository(db),
		catalog:      repository.NewCatalogRepository(db),
		prices:       repository.NewPriceListRepository(db),
		stock:        repository.NewStockRepository(db),
		parties:      repository.NewPartyRepository(db),
		transactions: repository.NewTransactionRepository(db),
		settings:     repository.NewSettingsRepository(db),
		idempotency:  repository.NewIdempotencyRepository(db),
		close: func() error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	}
}

// router wires services and handlers over b
func (b *backend) router(cfg *config.Config, deps *routes.Deps) *gin.Engine {
	pricingService := service.NewPricingService(b.catalog, b.prices)
	settingsService := service.NewSettingsService(b.settings, cfg.Tax.DefaultGSTRate)
	orderService := service.NewOrderService(
		b.transactor,
		b.orders,
		b.orderItems,
		b.catalog,
		b.stock,
		b.parties,
		b.transactions,
		pricingService,
		settingsService,
	)

	return routes.Setup(&routes.Handlers{
		Order:    handler.NewOrderHandler(orderService),
		Pricing:  handler.NewPricingHandler(pricingService),
		Settings: handler.NewSettingsHandler(settingsService),
	}, deps)
}

// routeDeps builds the shared route dependencies; the caller stops the limiter
func (b *backend) routeDeps(cfg *config.Config) *routes.Deps {
	return &routes.Deps{
		JWTManager:      utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpiryHours),
		Cfg:             cfg,
		IdempotencyRepo: b.idempotency,
		RateLimiter:     routes.NewRateLimiter(&cfg.RateLimit),
	}
}
