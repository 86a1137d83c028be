package taxonomy

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"tagstore/internal/entity"

	"gorm.io/gorm"
)

// strategy is the capability set a taxonomy variant plugs into the shared
// validation, resolution and listing machinery.
type strategy struct {
	// systemDefined requires the taxonomy row itself to carry the
	// system_defined flag.
	systemDefined bool
	// checkTag validates the object tag's tag/value reference.
	checkTag func(ctx context.Context, s *Service, t *Taxonomy, objectTag *ObjectTag) (bool, error)
	// resolveTag turns a caller-supplied reference into a backing tag. A
	// nil tag with a nil error means "no backing tag": the reference is
	// kept as a cached value and judged by validation.
	resolveTag func(ctx context.Context, s *Service, t *Taxonomy, ref string) (*entity.DbTag, error)
	// filterTags narrows the visible tag subset, e.g. to currently
	// supported locales. Nil means no filtering.
	filterTags func(ctx context.Context, s *Service, t *Taxonomy, tags []entity.DbTag) ([]entity.DbTag, error)
}

// variants is the fixed registry of known taxonomy strategies. The stored
// selector is an enum value, never a dynamically loaded symbol.
var variants = map[string]strategy{
	entity.VariantOpen: {
		checkTag:   checkFreeTextTag,
		resolveTag: resolveFreeTextTag,
	},
	entity.VariantClosed: {
		checkTag:   checkClosedTag,
		resolveTag: resolveClosedTag,
	},
	entity.VariantSystem: {
		systemDefined: true,
		checkTag:      checkSystemTag,
		resolveTag:    resolveSystemTag,
	},
	entity.VariantModel: {
		systemDefined: true,
		checkTag:      checkModelTag,
		resolveTag:    resolveModelTag,
	},
	entity.VariantLanguage: {
		systemDefined: true,
		checkTag:      checkLanguageTag,
		resolveTag:    resolveClosedTag,
		filterTags:    filterSupportedLocaleTags,
	},
}

// checkFreeTextTag accepts any non-empty value; no backing tag required.
func checkFreeTextTag(_ context.Context, _ *Service, _ *Taxonomy, objectTag *ObjectTag) (bool, error) {
	return strings.TrimSpace(objectTag.Value()) != "", nil
}

// checkClosedTag requires a linked tag belonging to this taxonomy.
func checkClosedTag(_ context.Context, _ *Service, t *Taxonomy, objectTag *ObjectTag) (bool, error) {
	tag := objectTag.Tag()
	if tag == nil {
		return false, nil
	}
	if tag.TaxonomyID == nil || *tag.TaxonomyID != t.ID {
		return false, nil
	}
	return strings.TrimSpace(objectTag.Value()) != "", nil
}

// checkSystemTag applies open or closed validation depending on the
// taxonomy's free-text flag; the system_defined requirement is enforced by
// the taxonomy check.
func checkSystemTag(ctx context.Context, s *Service, t *Taxonomy, objectTag *ObjectTag) (bool, error) {
	if t.AllowFreeText {
		return checkFreeTextTag(ctx, s, t, objectTag)
	}
	return checkClosedTag(ctx, s, t, objectTag)
}

// checkModelTag additionally requires the referenced external instance to
// still exist.
func checkModelTag(ctx context.Context, s *Service, t *Taxonomy, objectTag *ObjectTag) (bool, error) {
	ok, err := checkClosedTag(ctx, s, t, objectTag)
	if err != nil || !ok {
		return false, err
	}
	tag := objectTag.Tag()
	if tag.ExternalID == nil || s.entities == nil {
		return false, nil
	}
	return s.entities.Exists(ctx, *tag.ExternalID)
}

// checkLanguageTag additionally requires the tag's external id to be a
// currently supported locale.
func checkLanguageTag(ctx context.Context, s *Service, t *Taxonomy, objectTag *ObjectTag) (bool, error) {
	ok, err := checkClosedTag(ctx, s, t, objectTag)
	if err != nil || !ok {
		return false, err
	}
	tag := objectTag.Tag()
	if tag.ExternalID == nil {
		return false, nil
	}
	supported, err := s.supportedLocaleSet(ctx)
	if err != nil {
		return false, err
	}
	_, ok = supported[normalizeLocale(*tag.ExternalID)]
	return ok, nil
}

func resolveFreeTextTag(context.Context, *Service, *Taxonomy, string) (*entity.DbTag, error) {
	return nil, nil
}

// resolveClosedTag looks the reference up as a tag id within the taxonomy.
// A reference that is not a known id is kept as a cached value; resyncing
// may still link it by value.
func resolveClosedTag(ctx context.Context, s *Service, t *Taxonomy, ref string) (*entity.DbTag, error) {
	id, err := strconv.ParseUint(ref, 10, 64)
	if err != nil || id == 0 {
		return nil, nil
	}
	tag, err := s.repo.FindTagInTaxonomy(ctx, t.ID, uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return tag, nil
}

func resolveSystemTag(ctx context.Context, s *Service, t *Taxonomy, ref string) (*entity.DbTag, error) {
	if t.AllowFreeText {
		return resolveFreeTextTag(ctx, s, t, ref)
	}
	return resolveClosedTag(ctx, s, t, ref)
}

// resolveModelTag resolves the reference against the external entity store:
// an existing tag with a matching external id is reused (repairing its
// cached display value if the instance was renamed), otherwise a new tag is
// materialized from the instance. Unknown instances yield no tag.
func resolveModelTag(ctx context.Context, s *Service, t *Taxonomy, ref string) (*entity.DbTag, error) {
	if s.entities == nil {
		return nil, nil
	}

	tag, err := s.repo.FindTagByExternalID(ctx, t.ID, ref)
	switch {
	case err == nil:
		display, found, err := s.entities.Display(ctx, ref)
		if err != nil {
			return nil, err
		}
		if found && !strings.EqualFold(tag.Value, display) {
			if err := s.repo.UpdateTag(ctx, tag.ID, map[string]interface{}{"value": display}); err != nil {
				return nil, err
			}
			tag.Value = display
		}
		return tag, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		display, found, err := s.entities.Display(ctx, ref)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, nil
		}
		externalID := ref
		tag := entity.DbTag{
			TaxonomyID: &t.ID,
			Value:      display,
			ExternalID: &externalID,
		}
		if err := s.repo.CreateTag(ctx, &tag); err != nil {
			return nil, err
		}
		return &tag, nil
	default:
		return nil, err
	}
}

// filterSupportedLocaleTags keeps only tags bound to a supported locale.
func filterSupportedLocaleTags(ctx context.Context, s *Service, _ *Taxonomy, tags []entity.DbTag) ([]entity.DbTag, error) {
	supported, err := s.supportedLocaleSet(ctx)
	if err != nil {
		return nil, err
	}

	filtered := make([]entity.DbTag, 0, len(tags))
	for _, tag := range tags {
		if tag.ExternalID == nil {
			continue
		}
		if _, ok := supported[normalizeLocale(*tag.ExternalID)]; ok {
			filtered = append(filtered, tag)
		}
	}
	return filtered, nil
}

func (s *Service) supportedLocaleSet(ctx context.Context) (map[string]struct{}, error) {
	set := make(map[string]struct{})
	if s.locales == nil {
		return set, nil
	}
	codes, err := s.locales.SupportedLocales(ctx)
	if err != nil {
		return nil, err
	}
	for _, code := range codes {
		if normalized := normalizeLocale(code); normalized != "" {
			set[normalized] = struct{}{}
		}
	}
	return set, nil
}

// normalizeLocale reduces a locale code like "en-US" to its lower-cased
// language part.
func normalizeLocale(locale string) string {
	code := strings.ToLower(strings.TrimSpace(locale))
	if idx := strings.IndexByte(code, '-'); idx >= 0 {
		code = code[:idx]
	}
	return code
}
