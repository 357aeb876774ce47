package storefront

import (
	"github.com/rgimusa/storefront/internal/domain"
	"github.com/rgimusa/storefront/internal/store"
	"golang.org/x/text/language"
)

var languageMatcher = language.NewMatcher([]language.Tag{language.Spanish, language.English})

// MatchLanguage maps a tag or an Accept-Language header onto es or en
func MatchLanguage(accept string) domain.Language {
	tags, _, err := language.ParseAcceptLanguage(accept)
	if err != nil || len(tags) == 0 {
		return domain.DefaultLanguage
	}
	_, idx, conf := languageMatcher.Match(tags...)
	if conf == language.No {
		return domain.DefaultLanguage
	}
	if idx == 1 {
		return domain.LangEN
	}
	return domain.LangES
}

func (s *State) Language() domain.Language {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lang
}

func (s *State) SetLanguage(lang domain.Language) (store.Result, error) {
	if lang != domain.LangES && lang != domain.LangEN {
		return store.Result{}, ErrInvalidLanguage
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lang = lang
	return s.store.Save(store.KeyLang, s.lang), nil
}

// AdminSession the persisted admin marker, nil when logged out
func (s *State) AdminSession() *domain.AdminSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil
	}
	cp := *s.session
	return &cp
}

// SetAdminSession stores or, with nil, clears the admin marker
func (s *State) SetAdminSession(session *domain.AdminSession) store.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	if session == nil {
		s.session = nil
		return s.store.Remove(store.KeyAdminSession)
	}
	cp := *session
	s.session = &cp
	return s.store.Save(store.KeyAdminSession, s.session)
}
