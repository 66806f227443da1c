package jsonschema

import (
	"embed"

	"github.com/kaptinlin/go-i18n"
)

//go:embed locales/*.json
var localesFS embed.FS

// I18n returns an internationalization bundle pre-loaded with this
// package's embedded locale files, for use with EvaluationError.Localize
// and Scope.ToLocalizeList. Grounded on the teacher's i18n.go GetI18n.
func I18n() (*i18n.I18n, error) {
	bundle := i18n.NewBundle(
		i18n.WithDefaultLocale("en"),
		i18n.WithLocales("en", "zh-Hans"),
	)
	if err := bundle.LoadFS(localesFS, "locales/*.json"); err != nil {
		return nil, err
	}
	return bundle, nil
}
