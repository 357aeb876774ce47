package admin

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/pkg/errors"
	"github.com/rgimusa/storefront/internal/domain"
	"github.com/rgimusa/storefront/internal/storefront"
	"go.uber.org/zap"
)

// Workflow the gated order review. LoggedOut -> LoggedIn on a credential
// match, back on Logout. Sessions do not expire.
type Workflow struct {
	state *storefront.State
	auth  Authenticator
	clock func() time.Time
}

func NewWorkflow(state *storefront.State, auth Authenticator) *Workflow {
	return &Workflow{state: state, auth: auth, clock: time.Now}
}

// Login starts a session. On a mismatch the session stays as it was.
func (w *Workflow) Login(username, password string) (*domain.AdminSession, error) {
	username = strings.TrimSpace(username)
	if !w.auth.Verify(username, password) {
		zap.L().Warn("admin: login rejected", zap.String("user", username))
		return nil, ErrBadCredentials
	}
	session := &domain.AdminSession{User: username, At: w.clock().UTC().Truncate(time.Millisecond)}
	if res := w.state.SetAdminSession(session); !res.OK() {
		zap.L().Warn("admin: session not persisted", zap.Error(res.Err))
	}
	zap.L().Info("admin: login", zap.String("user", username))
	return session, nil
}

// Verify checks credentials without touching the persisted session
func (w *Workflow) Verify(username, password string) error {
	username = strings.TrimSpace(username)
	if !w.auth.Verify(username, password) {
		zap.L().Warn("admin: credentials rejected", zap.String("user", username))
		return ErrBadCredentials
	}
	return nil
}

func (w *Workflow) Logout() {
	w.state.SetAdminSession(nil)
}

func (w *Workflow) LoggedIn() bool {
	return w.state.AdminSession() != nil
}

func (w *Workflow) Session() *domain.AdminSession {
	return w.state.AdminSession()
}

func (w *Workflow) guard() error {
	if !w.LoggedIn() {
		return ErrNotLoggedIn
	}
	return nil
}

// FilterParams raw filter input as it arrives from a query string or flags
type FilterParams struct {
	Query    string `query:"q"`
	Shipping string `query:"shipping"`
	Status   string `query:"status"`
	Since    string `query:"since"`
	Until    string `query:"until"`
}

// ParseFilter converts raw params into an order filter. Dates accept any
// format dateparse understands; a bare date for Until covers the whole day.
func ParseFilter(p FilterParams) (storefront.OrderFilter, error) {
	f := storefront.OrderFilter{Query: strings.TrimSpace(p.Query)}
	if s := strings.TrimSpace(p.Shipping); s != "" && s != "all" {
		m, ok := domain.ParseShippingMethod(s)
		if !ok {
			return f, storefront.ErrInvalidShipping
		}
		f.Shipping = m
	}
	if s := strings.TrimSpace(p.Status); s != "" && s != "all" {
		st := domain.OrderStatus(strings.ToLower(s))
		if !st.Valid() {
			return f, storefront.ErrInvalidStatus
		}
		f.Status = st
	}
	if s := strings.TrimSpace(p.Since); s != "" {
		t, err := dateparse.ParseIn(s, time.UTC)
		if err != nil {
			return f, errors.Wrap(err, "parse since")
		}
		f.Since = t
	}
	if s := strings.TrimSpace(p.Until); s != "" {
		t, err := dateparse.ParseIn(s, time.UTC)
		if err != nil {
			return f, errors.Wrap(err, "parse until")
		}
		if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		f.Until = t
	}
	return f, nil
}

func (w *Workflow) ListOrders(f storefront.OrderFilter) ([]domain.Order, error) {
	if err := w.guard(); err != nil {
		return nil, err
	}
	return w.state.FilterOrders(f), nil
}

func (w *Workflow) ToggleStatus(id string) (domain.Order, error) {
	if err := w.guard(); err != nil {
		return domain.Order{}, err
	}
	return w.state.ToggleOrderStatus(id)
}

func (w *Workflow) SetStatus(id string, status domain.OrderStatus) (domain.Order, error) {
	if err := w.guard(); err != nil {
		return domain.Order{}, err
	}
	return w.state.SetOrderStatus(id, status)
}
