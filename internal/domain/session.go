package domain

import "time"

// AdminSession presence grants access to the order review dashboard
type AdminSession struct {
	User string    `json:"user"`
	At   time.Time `json:"at"`
}

type Language string

const (
	LangES Language = "es"
	LangEN Language = "en"
)

const DefaultLanguage = LangES
