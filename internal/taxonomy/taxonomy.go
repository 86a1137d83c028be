package taxonomy

import (
	"context"
	"strings"
	"tagstore/internal/entity"
	"tagstore/internal/model"

	"github.com/sirupsen/logrus"
)

// MaxDepth bounds a taxonomy's tag tree, including the tag itself.
const MaxDepth = 3

// Taxonomy is a vocabulary namespace together with its resolved validation
// strategy. The embedded row carries the namespace-wide policy flags.
type Taxonomy struct {
	entity.DbTaxonomy

	variant string
}

func (t *Taxonomy) strategy() strategy {
	return variants[t.variant]
}

// Checks toggles the three independent validation checks. Callers relax
// individual checks when validating partial data, e.g. incoming imports
// whose object id is not known yet.
type Checks struct {
	Taxonomy bool
	Tag      bool
	Object   bool
}

// AllChecks enables every validation check.
func AllChecks() Checks {
	return Checks{Taxonomy: true, Tag: true, Object: true}
}

// Service implements the tagging domain operations over the persistence,
// external-entity and locale collaborators.
type Service struct {
	repo     model.Repository
	entities EntityProvider
	locales  LocaleProvider
	log      *logrus.Entry
}

// NewService creates the tagging service. entities backs model-backed
// taxonomies and locales backs the language taxonomy; either may be nil,
// in which case the corresponding variant rejects all tags.
func NewService(repo model.Repository, entities EntityProvider, locales LocaleProvider) *Service {
	return &Service{
		repo:     repo,
		entities: entities,
		locales:  locales,
		log:      logrus.WithField("component", "taxonomy"),
	}
}

// wrap builds the domain taxonomy for a row, resolving its variant.
func (s *Service) wrap(row entity.DbTaxonomy) *Taxonomy {
	return &Taxonomy{DbTaxonomy: row, variant: s.resolveVariant(row)}
}

// resolveVariant maps the stored variant selector onto a known strategy. An
// unknown selector is logged and degrades to base open/closed behaviour so
// a bad row never fails every operation on its taxonomy.
func (s *Service) resolveVariant(row entity.DbTaxonomy) string {
	variant := row.Variant
	if variant == "" {
		return defaultVariant(row)
	}
	if _, ok := variants[variant]; !ok {
		s.log.WithFields(logrus.Fields{
			"taxonomy_id": row.ID,
			"variant":     variant,
		}).Warn("unknown taxonomy variant, falling back to base behaviour")
		return defaultVariant(row)
	}
	return variant
}

func defaultVariant(row entity.DbTaxonomy) string {
	if row.AllowFreeText {
		return entity.VariantOpen
	}
	return entity.VariantClosed
}

// ValidateObjectTag runs the enabled checks against the given taxonomy.
func (s *Service) ValidateObjectTag(ctx context.Context, t *Taxonomy, objectTag *ObjectTag, checks Checks) (bool, error) {
	if t == nil || objectTag == nil {
		return false, nil
	}
	strat := t.strategy()

	if checks.Taxonomy {
		if objectTag.Row.TaxonomyID == nil || *objectTag.Row.TaxonomyID != t.ID {
			return false, nil
		}
		if strat.systemDefined && !t.SystemDefined {
			return false, nil
		}
	}

	if checks.Tag {
		ok, err := strat.checkTag(ctx, s, t, objectTag)
		if err != nil || !ok {
			return false, err
		}
	}

	if checks.Object {
		if strings.TrimSpace(objectTag.Row.ObjectID) == "" {
			return false, nil
		}
	}

	return true, nil
}

// IsValid reports whether the object tag is valid for display: it must be
// linked to a taxonomy and pass that taxonomy's full validation. An object
// tag with no taxonomy link is never valid, even though its cached display
// fields remain readable.
func (s *Service) IsValid(ctx context.Context, objectTag *ObjectTag) (bool, error) {
	if objectTag == nil || objectTag.taxonomy == nil {
		return false, nil
	}
	return s.ValidateObjectTag(ctx, objectTag.taxonomy, objectTag, AllChecks())
}
