package domain

import "strings"

// Lang is the active display language.
type Lang string

const (
	LangEN Lang = "en"
	LangPT Lang = "pt"
)

// ParseLang maps anything that is not Portuguese to English.
func ParseLang(s string) Lang {
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(s)), "pt") {
		return LangPT
	}
	return LangEN
}

// LocalizedText is a bilingual field.
type LocalizedText struct {
	EN string `json:"en"`
	PT string `json:"pt"`
}

// In returns the value for lang, falling back to English when the Portuguese value is blank.
func (t LocalizedText) In(lang Lang) string {
	if lang == LangPT && strings.TrimSpace(t.PT) != "" {
		return t.PT
	}
	return t.EN
}

// Complete reports whether both languages are filled in.
func (t LocalizedText) Complete() bool {
	return strings.TrimSpace(t.EN) != "" && strings.TrimSpace(t.PT) != ""
}

// LocalizedList is an ordered bilingual list (amenities).
type LocalizedList struct {
	EN []string `json:"en"`
	PT []string `json:"pt"`
}

func (l LocalizedList) In(lang Lang) []string {
	if lang == LangPT && len(l.PT) > 0 {
		return l.PT
	}
	return l.EN
}
