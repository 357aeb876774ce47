package notify

import (
	"context"
	"sync"
	"time"

	EventBus "github.com/asaskevich/EventBus"
	"github.com/panjf2000/ants/v2"
	"github.com/pkg/errors"
	"github.com/rgimusa/storefront/internal/domain"
	"github.com/rgimusa/storefront/internal/storefront"
	"go.uber.org/zap"
)

// Notifier delivers one order event to staff
type Notifier interface {
	Name() string
	Notify(ctx context.Context, o domain.Order) error
}

// Dispatcher fans submitted orders out to the notifiers on a bounded worker pool
type Dispatcher struct {
	bus       EventBus.Bus
	pool      *ants.Pool
	notifiers []Notifier
	timeout   time.Duration
	wg        sync.WaitGroup
}

func NewDispatcher(bus EventBus.Bus, workers int, timeout time.Duration, notifiers ...Notifier) (*Dispatcher, error) {
	if workers <= 0 {
		workers = 4
	}
	pool, err := ants.NewPool(workers, ants.WithPanicHandler(func(p interface{}) {
		zap.S().Errorf("notify: worker panic %v", p)
	}))
	if err != nil {
		return nil, errors.Wrap(err, "create notify pool")
	}
	return &Dispatcher{bus: bus, pool: pool, notifiers: notifiers, timeout: timeout}, nil
}

// Start subscribes to order submissions
func (d *Dispatcher) Start() error {
	if err := d.bus.Subscribe(storefront.TopicOrderSubmitted, d.onOrder); err != nil {
		return errors.Wrap(err, "subscribe order events")
	}
	zap.L().Info("notify dispatcher started", zap.Int("notifiers", len(d.notifiers)))
	return nil
}

func (d *Dispatcher) onOrder(o domain.Order) {
	for _, n := range d.notifiers {
		n := n
		d.wg.Add(1)
		err := d.pool.Submit(func() {
			defer d.wg.Done()
			ctx := context.Background()
			if d.timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, d.timeout)
				defer cancel()
			}
			if err := n.Notify(ctx, o); err != nil {
				zap.L().Error("notify: delivery failed",
					zap.String("notifier", n.Name()),
					zap.String("order", o.ID),
					zap.Error(err))
			}
		})
		if err != nil {
			d.wg.Done()
			zap.L().Error("notify: pool rejected task", zap.String("order", o.ID), zap.Error(err))
		}
	}
}

// Wait blocks until every submitted notification has finished
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Stop unsubscribes, drains pending work and releases the pool
func (d *Dispatcher) Stop() {
	_ = d.bus.Unsubscribe(storefront.TopicOrderSubmitted, d.onOrder)
	d.wg.Wait()
	d.pool.Release()
	zap.L().Info("notify dispatcher stopped")
}

// LogNotifier writes submitted orders to the application log
type LogNotifier struct {
	WhatsappNumber string
	Products       ProductLookup
}

func (l *LogNotifier) Name() string { return "log" }

func (l *LogNotifier) Notify(_ context.Context, o domain.Order) error {
	zap.L().Info("new order",
		zap.String("order", o.ID),
		zap.String("buyer", o.Buyer.Name),
		zap.String("phone", o.Buyer.Phone),
		zap.Float64("total", o.Total),
		zap.String("whatsapp", WhatsAppLink(l.WhatsappNumber, OrderMessage(o, l.Products))))
	return nil
}
