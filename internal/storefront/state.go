package storefront

import (
	"strconv"
	"sync"
	"time"

	EventBus "github.com/asaskevich/EventBus"
	"github.com/bwmarrin/snowflake"
	"github.com/rgimusa/storefront/internal/domain"
	"github.com/rgimusa/storefront/internal/store"
	"go.uber.org/zap"
)

// TopicOrderSubmitted published with the new domain.Order after a successful checkout
const TopicOrderSubmitted = "order:submitted"

// TopicOrderStatus published with the updated domain.Order after a status change
const TopicOrderStatus = "order:status"

const DefaultMaxOrders = 500

// ProductLookup resolves catalog products by id
type ProductLookup interface {
	Product(id string) (domain.Product, bool)
}

// IDGenerator produces order ids
type IDGenerator interface {
	NextID() string
}

// SnowflakeIDs order ids of the form ORD-<snowflake>
type SnowflakeIDs struct {
	node *snowflake.Node
}

func NewSnowflakeIDs(nodeID int64) (*SnowflakeIDs, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, err
	}
	return &SnowflakeIDs{node: node}, nil
}

func (s *SnowflakeIDs) NextID() string {
	return "ORD-" + strconv.FormatInt(s.node.Generate().Int64(), 10)
}

type Options struct {
	Store     *store.Store
	Catalog   ProductLookup
	IDs       IDGenerator
	Clock     func() time.Time
	Bus       EventBus.Bus
	MaxOrders int
}

// Mutation outcome of a cart operation. Applied is false for a no-op;
// Persist tells whether the new state reached the store.
type Mutation struct {
	Applied bool         `json:"applied"`
	Persist store.Result `json:"persist"`
}

// State one shopper profile: cart, order history, language and admin session.
// All operations are serialized; each mutation writes through to the store
// before returning.
type State struct {
	mu        sync.Mutex
	store     *store.Store
	catalog   ProductLookup
	ids       IDGenerator
	clock     func() time.Time
	bus       EventBus.Bus
	maxOrders int

	cart    []domain.CartLineItem
	history []domain.Order
	lang    domain.Language
	session *domain.AdminSession
}

// New restores the persisted profile. Unreadable keys start from their defaults.
func New(opts Options) (*State, error) {
	if opts.Store == nil {
		opts.Store = store.New(store.NewMemoryBackend(0))
	}
	if opts.IDs == nil {
		ids, err := NewSnowflakeIDs(1)
		if err != nil {
			return nil, err
		}
		opts.IDs = ids
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.MaxOrders <= 0 {
		opts.MaxOrders = DefaultMaxOrders
	}
	s := &State{
		store:     opts.Store,
		catalog:   opts.Catalog,
		ids:       opts.IDs,
		clock:     opts.Clock,
		bus:       opts.Bus,
		maxOrders: opts.MaxOrders,
	}

	var res store.Result
	s.cart, res = store.Load(s.store, store.KeyCart, []domain.CartLineItem{})
	logRestore(store.KeyCart, res)
	s.cart = sanitizeCart(s.cart)

	s.history, res = store.Load(s.store, store.KeyHistory, []domain.Order{})
	logRestore(store.KeyHistory, res)
	if s.history == nil {
		s.history = []domain.Order{}
	}

	s.lang, res = store.Load(s.store, store.KeyLang, domain.DefaultLanguage)
	logRestore(store.KeyLang, res)
	if s.lang != domain.LangES && s.lang != domain.LangEN {
		s.lang = domain.DefaultLanguage
	}

	s.session, res = store.Load[*domain.AdminSession](s.store, store.KeyAdminSession, nil)
	logRestore(store.KeyAdminSession, res)
	return s, nil
}

func logRestore(key string, res store.Result) {
	if res.Status == store.StatusCorrupt || res.Status == store.StatusFailed {
		zap.L().Warn("storefront: restore fell back to default", zap.String("key", key), zap.Stringer("status", res.Status))
	}
}

// sanitizeCart drops empty ids, merges duplicates and lifts quantities below 1
func sanitizeCart(items []domain.CartLineItem) []domain.CartLineItem {
	out := make([]domain.CartLineItem, 0, len(items))
	index := make(map[string]int, len(items))
	for _, it := range items {
		if it.ID == "" {
			continue
		}
		if it.Qty < 1 {
			it.Qty = 1
		}
		if i, ok := index[it.ID]; ok {
			out[i].Qty += it.Qty
			continue
		}
		index[it.ID] = len(out)
		out = append(out, it)
	}
	return out
}

func (s *State) publish(topic string, o domain.Order) {
	if s.bus != nil {
		s.bus.Publish(topic, o.Clone())
	}
}

func (s *State) lookup(id string) (domain.Product, bool) {
	if s.catalog == nil {
		return domain.Product{}, false
	}
	return s.catalog.Product(id)
}
