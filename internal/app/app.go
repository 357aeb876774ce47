package app

import (
	"context"
	"os"
	"time"
	_ "time/tzdata"

	EventBus "github.com/asaskevich/EventBus"
	"github.com/pkg/errors"
	"github.com/rgimusa/storefront/config"
	"github.com/rgimusa/storefront/internal/admin"
	"github.com/rgimusa/storefront/internal/catalog"
	"github.com/rgimusa/storefront/internal/domain"
	"github.com/rgimusa/storefront/internal/notify"
	"github.com/rgimusa/storefront/internal/store"
	"github.com/rgimusa/storefront/internal/storefront"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Application struct {
	appConfig  *config.AppConfig
	store      *store.Store
	loader     *catalog.Loader
	catalog    *catalog.Catalog
	searcher   *catalog.Searcher
	state      *storefront.State
	workflow   *admin.Workflow
	bus        EventBus.Bus
	dispatcher *notify.Dispatcher
	sched      *cron.Cron
}

// Ensure Application implements all interfaces
var (
	_ ConfigProvider    = (*Application)(nil)
	_ CatalogProvider   = (*Application)(nil)
	_ StateProvider     = (*Application)(nil)
	_ WorkflowProvider  = (*Application)(nil)
	_ SchedulerProvider = (*Application)(nil)
	_ AppContext        = (*Application)(nil)
)

func NewApplication(appConfig *config.AppConfig) *Application {
	return &Application{appConfig: appConfig}
}

func (a *Application) Config() *config.AppConfig {
	return a.appConfig
}

func (a *Application) Catalog() *catalog.Catalog {
	return a.catalog
}

func (a *Application) Searcher() *catalog.Searcher {
	return a.searcher
}

func (a *Application) State() *storefront.State {
	return a.state
}

func (a *Application) Workflow() *admin.Workflow {
	return a.workflow
}

// Scheduler returns the cron scheduler
func (a *Application) Scheduler() *cron.Cron {
	return a.sched
}

// InitLogger installs the global zap logger, optionally teeing into a rotated file
func InitLogger(cfg *config.AppConfig) {
	var zapConfig zap.Config
	if cfg.Logger.Mode == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}
	zapConfig.OutputPaths = []string{"stdout"}

	var logger *zap.Logger
	if cfg.Logger.FileEnable {
		lumberJackLogger := &lumberjack.Logger{
			Filename:   cfg.Logger.Filename,
			MaxSize:    64,
			MaxBackups: 7,
			MaxAge:     7,
			Compress:   false,
		}
		core := zapcore.NewTee(
			zapcore.NewCore(
				zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
				zapcore.AddSync(lumberJackLogger),
				zapConfig.Level,
			),
			zapcore.NewCore(
				zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
				zapcore.AddSync(os.Stdout),
				zapConfig.Level,
			),
		)
		logger = zap.New(core, zap.AddCaller())
	} else {
		var err error
		logger, err = zapConfig.Build(zap.AddCaller())
		if err != nil {
			panic(err)
		}
	}
	zap.ReplaceGlobals(logger)
}

// Init wires the store, catalog, shopper state, admin workflow and
// notifications. withJobs also starts the background scheduler.
func (a *Application) Init(cfg *config.AppConfig, withJobs bool) error {
	a.appConfig = cfg
	loc, err := time.LoadLocation(cfg.System.Location)
	if err != nil {
		zap.S().Error("timezone config error")
	} else {
		time.Local = loc
	}

	InitLogger(cfg)

	if err := cfg.InitDirs(); err != nil {
		zap.S().Warnf("init workdir failed: %v", err)
	}

	a.store, err = store.Open(cfg)
	if err != nil {
		return errors.Wrap(err, "open store")
	}
	zap.S().Infof("Store ready, type: %s", cfg.Database.Type)

	a.loader = catalog.NewLoader(catalog.NewSource(cfg.Catalog.Source, cfg.CatalogTimeout()), cfg.CatalogTimeout())
	a.catalog = catalog.New()
	a.RefreshCatalog()
	a.searcher = catalog.NewSearcher(a.catalog, a.newRanker(), cfg.SearchTimeout(), cfg.Search.MaxResults)

	ids, err := storefront.NewSnowflakeIDs(1)
	if err != nil {
		return errors.Wrap(err, "init order ids")
	}
	a.bus = EventBus.New()
	a.state, err = storefront.New(storefront.Options{
		Store:     a.store,
		Catalog:   a.catalog,
		IDs:       ids,
		Bus:       a.bus,
		MaxOrders: cfg.Checkout.MaxOrders,
	})
	if err != nil {
		return errors.Wrap(err, "restore storefront state")
	}

	auth, err := admin.NewBcryptAuthenticator(cfg.Admin.Username, cfg.Admin.Password, cfg.Admin.PasswordHash)
	if err != nil {
		return errors.Wrap(err, "init admin auth")
	}
	a.workflow = admin.NewWorkflow(a.state, auth)

	if err := a.initNotify(); err != nil {
		return err
	}

	if withJobs {
		a.initJob()
	}
	return nil
}

func (a *Application) newRanker() catalog.Ranker {
	if !a.appConfig.Search.Enabled {
		return nil
	}
	ranker, err := catalog.NewGeminiRanker(context.Background(), a.appConfig.Search.APIKey, a.appConfig.Search.Model)
	if err != nil {
		zap.L().Warn("AI search disabled", zap.Error(err))
		return nil
	}
	zap.L().Info("AI search enabled", zap.String("model", a.appConfig.Search.Model))
	return ranker
}

func (a *Application) initNotify() error {
	notifiers := []notify.Notifier{
		&notify.LogNotifier{WhatsappNumber: a.appConfig.Checkout.WhatsappNumber, Products: a.catalog},
	}
	if a.appConfig.Mail.Enabled {
		notifiers = append(notifiers, notify.NewMailNotifier(a.appConfig.Mail, a.catalog))
	}
	d, err := notify.NewDispatcher(a.bus, 4, 30*time.Second, notifiers...)
	if err != nil {
		return err
	}
	if err := d.Start(); err != nil {
		return err
	}
	a.dispatcher = d
	return nil
}

// RefreshCatalog reloads the catalog resources. A resource that fails to load
// keeps the previously loaded data instead of blanking the store.
func (a *Application) RefreshCatalog() *catalog.Snapshot {
	snap := a.loader.LoadAll(context.Background())
	if a.catalog.Len() > 0 {
		if snap.Results[catalog.ProductsFile].FellBack {
			snap.Products = a.catalog.Products()
		}
		if snap.Results[catalog.CategoriesFile].FellBack {
			snap.Categories = a.catalog.Categories()
		}
		if snap.Results[catalog.FeaturedFile].FellBack {
			snap.Featured = featuredIDs(a.catalog.Featured())
		}
	}
	a.catalog.Replace(snap)
	return snap
}

func featuredIDs(products []domain.Product) []string {
	ids := make([]string, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	return ids
}

// Release releases application resources
func (a *Application) Release() {
	if a.sched != nil {
		a.sched.Stop()
	}
	if a.dispatcher != nil {
		a.dispatcher.Stop()
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			zap.L().Error("close store failed", zap.Error(err))
		}
	}
	_ = zap.L().Sync()
}
