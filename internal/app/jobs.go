package app

import (
	"time"

	"github.com/rgimusa/storefront/internal/admin"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

func (a *Application) initJob() {
	loc, _ := time.LoadLocation(a.appConfig.System.Location)
	if loc == nil {
		loc = time.Local
	}
	a.sched = cron.New(cron.WithLocation(loc), cron.WithParser(cronParser))

	var err error
	if spec := a.appConfig.Catalog.RefreshSpec; spec != "" {
		_, err = a.sched.AddFunc(spec, a.SchedRefreshCatalogTask)
		if err != nil {
			zap.S().Errorf("init job error %s", err.Error())
		}
	}

	_, err = a.sched.AddFunc("@daily", a.SchedOrderSummaryTask)
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	a.sched.Start()
}

// SchedRefreshCatalogTask reloads the catalog resources
func (a *Application) SchedRefreshCatalogTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()
	snap := a.RefreshCatalog()
	for name, res := range snap.Results {
		if res.FellBack {
			zap.L().Warn("catalog refresh kept previous data", zap.String("source", name), zap.Error(res.Err))
		}
	}
}

// SchedOrderSummaryTask logs the order history aggregates
func (a *Application) SchedOrderSummaryTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()
	st := admin.ComputeStats(a.state.Orders())
	zap.L().Info("order summary",
		zap.Int("orders", st.Orders),
		zap.Int("pending", st.Pending),
		zap.Int("customers", st.UniqueCustomers),
		zap.Float64("sales", st.TotalSales),
		zap.Int("products", a.catalog.Len()))
}
