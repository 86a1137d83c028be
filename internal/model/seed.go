package model

import (
	"context"
	"errors"
	"strings"
	"tagstore/internal/config"
	"tagstore/internal/entity"

	"gorm.io/gorm"
)

// Display names for the locale tags of the language taxonomy. Codes not
// listed here fall back to the upper-cased code.
var languageNames = map[string]string{
	"ar": "Arabic",
	"de": "German",
	"en": "English",
	"es": "Spanish",
	"fr": "French",
	"hi": "Hindi",
	"it": "Italian",
	"ja": "Japanese",
	"ko": "Korean",
	"nl": "Dutch",
	"pt": "Portuguese",
	"ru": "Russian",
	"zh": "Chinese",
}

// SeedSystemTaxonomies ensures the built-in system-defined taxonomies exist:
// a closed Language taxonomy with one tag per configured locale, and a
// model-backed Author taxonomy whose tags are materialized from users on
// demand.
func SeedSystemTaxonomies(ctx context.Context, repo Repository, cfg config.Config) error {
	if repo == nil {
		return nil
	}

	language, err := ensureTaxonomy(ctx, repo, entity.DbTaxonomy{
		Name:             "Language",
		Description:      "The language of the tagged object.",
		Enabled:          true,
		AllowMultiple:    false,
		SystemDefined:    true,
		VisibleToAuthors: true,
		Variant:          entity.VariantLanguage,
	})
	if err != nil {
		return err
	}

	if err := seedLanguageTags(ctx, repo, language, cfg.SupportedLocales); err != nil {
		return err
	}

	_, err = ensureTaxonomy(ctx, repo, entity.DbTaxonomy{
		Name:             "Author",
		Description:      "One tag per user who authored the tagged object.",
		Enabled:          true,
		AllowMultiple:    true,
		SystemDefined:    true,
		VisibleToAuthors: false,
		Variant:          entity.VariantModel,
	})
	return err
}

func ensureTaxonomy(ctx context.Context, repo Repository, seed entity.DbTaxonomy) (*entity.DbTaxonomy, error) {
	taxonomies, err := repo.ListTaxonomies(ctx, nil)
	if err != nil {
		return nil, err
	}
	for i := range taxonomies {
		if taxonomies[i].Variant == seed.Variant && strings.EqualFold(taxonomies[i].Name, seed.Name) {
			return &taxonomies[i], nil
		}
	}

	taxonomy := seed
	if err := repo.CreateTaxonomy(ctx, &taxonomy); err != nil {
		return nil, err
	}
	return &taxonomy, nil
}

func seedLanguageTags(ctx context.Context, repo Repository, taxonomy *entity.DbTaxonomy, locales []string) error {
	if taxonomy == nil {
		return nil
	}

	for _, locale := range locales {
		code := normalizeLocale(locale)
		if code == "" {
			continue
		}

		_, err := repo.FindTagByExternalID(ctx, taxonomy.ID, code)
		switch {
		case err == nil:
			continue
		case errors.Is(err, gorm.ErrRecordNotFound):
			externalID := code
			tag := entity.DbTag{
				TaxonomyID: &taxonomy.ID,
				Value:      languageName(code),
				ExternalID: &externalID,
			}
			if err := repo.CreateTag(ctx, &tag); err != nil {
				return err
			}
		default:
			return err
		}
	}
	return nil
}

// normalizeLocale reduces a locale code like "en-US" to its language part.
func normalizeLocale(locale string) string {
	code := strings.ToLower(strings.TrimSpace(locale))
	if idx := strings.IndexByte(code, '-'); idx >= 0 {
		code = code[:idx]
	}
	return code
}

func languageName(code string) string {
	if name, ok := languageNames[code]; ok {
		return name
	}
	return strings.ToUpper(code)
}
