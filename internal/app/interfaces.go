package app

import (
	"github.com/rgimusa/storefront/config"
	"github.com/rgimusa/storefront/internal/admin"
	"github.com/rgimusa/storefront/internal/catalog"
	"github.com/rgimusa/storefront/internal/storefront"
	"github.com/robfig/cron/v3"
)

// ConfigProvider provides application configuration
type ConfigProvider interface {
	Config() *config.AppConfig
}

// CatalogProvider provides the loaded catalog and its search
type CatalogProvider interface {
	Catalog() *catalog.Catalog
	Searcher() *catalog.Searcher
}

// StateProvider provides the shopper profile
type StateProvider interface {
	State() *storefront.State
}

// WorkflowProvider provides the admin review workflow
type WorkflowProvider interface {
	Workflow() *admin.Workflow
}

// SchedulerProvider provides task scheduling capability
type SchedulerProvider interface {
	Scheduler() *cron.Cron
}

// AppContext combines all provider interfaces for full application context
type AppContext interface {
	ConfigProvider
	CatalogProvider
	StateProvider
	WorkflowProvider
	SchedulerProvider

	// RefreshCatalog reloads the catalog resources and swaps them in
	RefreshCatalog() *catalog.Snapshot
}
