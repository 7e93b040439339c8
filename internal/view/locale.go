package view

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Message keys. English text doubles as the key.
const (
	msgNoProjects = "No projects monitored yet."
	msgAddOne     = "Add one!"
	msgHistory    = "History"
	msgExpired    = "Expired"
)

// Page labels used around the table.
const (
	MsgPageTitle = "Live view"
	MsgRefresh   = "Refresh"
)

var headerKeys = map[Column]string{
	ColumnName:          "Name",
	ColumnAddress:       "Address",
	ColumnType:          "Type",
	ColumnLastCheck:     "Last check",
	ColumnDomains:       "Domains",
	ColumnIP:            "IP",
	ColumnIssuer:        "Issuer",
	ColumnExpiryDate:    "Expiry date",
	ColumnDaysRemaining: "Days remaining",
	ColumnActions:       "Actions",
}

var supported = []language.Tag{language.English, language.French}

var matcher = language.NewMatcher(supported)

func init() {
	fr := language.French
	for key, text := range map[string]string{
		msgNoProjects: "Aucun projet surveillé pour le moment.",
		msgAddOne:     "Ajoutez-en un !",
		msgHistory:    "Historique",
		msgExpired:    "Expiré",
		MsgPageTitle:  "Vue en direct",
		MsgRefresh:    "Actualiser",
	} {
		message.SetString(fr, key, text)
	}

	for col, text := range map[Column]string{
		ColumnName:          "Nom",
		ColumnAddress:       "Adresse",
		ColumnLastCheck:     "Dernière vérification",
		ColumnDomains:       "Domaines",
		ColumnIssuer:        "Émetteur",
		ColumnExpiryDate:    "Date d'expiration",
		ColumnDaysRemaining: "Jours restants",
	} {
		message.SetString(fr, headerKeys[col], text)
	}

	frMonths := [12]string{"janv.", "févr.", "mars", "avr.", "mai", "juin",
		"juil.", "août", "sept.", "oct.", "nov.", "déc."}
	for i, m := range frMonths {
		message.SetString(fr, monthKey(time.Month(i+1)), m)
	}
}

// Locale translates the fixed strings of the table.
type Locale struct {
	tag     language.Tag
	printer *message.Printer
}

// NewLocale picks the best supported language for an Accept-Language style
// list such as "fr-CA, en;q=0.8". Unknown or empty input falls back to English.
func NewLocale(accept string) Locale {
	_, idx, _ := matcher.Match(parseTags(accept)...)
	tag := supported[idx]
	return Locale{tag: tag, printer: message.NewPrinter(tag)}
}

// Tag returns the selected language.
func (l Locale) Tag() language.Tag {
	return l.tag
}

// T returns the translation of key.
func (l Locale) T(key string) string {
	if l.printer == nil {
		return key
	}
	return l.printer.Sprintf(key)
}

// Header returns the column title.
func (l Locale) Header(col Column) string {
	return l.T(headerKeys[col])
}

// Headers returns all column titles in display order.
func (l Locale) Headers() []string {
	out := make([]string, len(Columns))
	for i, col := range Columns {
		out[i] = l.Header(col)
	}
	return out
}

// Month returns the abbreviated month name.
func (l Locale) Month(m time.Month) string {
	return l.T(monthKey(m))
}

func monthKey(m time.Month) string {
	return m.String()[:3]
}

func parseTags(accept string) []language.Tag {
	tags, _, err := language.ParseAcceptLanguage(accept)
	if err != nil || len(tags) == 0 {
		return []language.Tag{language.English}
	}
	return tags
}
