package taxonomy

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"tagstore/internal/model"

	"gorm.io/gorm"
)

// EntityProvider exposes the external entity store backing a model-backed
// taxonomy. Instances are addressed by the identifier stored in a tag's
// external id.
type EntityProvider interface {
	Exists(ctx context.Context, externalID string) (bool, error)
	// Display returns the instance's display value; found is false when no
	// such instance exists.
	Display(ctx context.Context, externalID string) (value string, found bool, err error)
}

// LocaleProvider exposes the currently supported locale codes for the
// language taxonomy.
type LocaleProvider interface {
	SupportedLocales(ctx context.Context) ([]string, error)
}

// UserDirectory adapts the user table to EntityProvider, backing the
// author taxonomy with one tag per user.
type UserDirectory struct {
	repo model.Repository
}

// NewUserDirectory creates a user-backed entity provider.
func NewUserDirectory(repo model.Repository) *UserDirectory {
	return &UserDirectory{repo: repo}
}

// Exists reports whether a user with the given id exists.
func (d *UserDirectory) Exists(ctx context.Context, externalID string) (bool, error) {
	id, ok := parseUserID(externalID)
	if !ok {
		return false, nil
	}
	_, err := d.repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Display returns the user's display name, falling back to the email.
func (d *UserDirectory) Display(ctx context.Context, externalID string) (string, bool, error) {
	id, ok := parseUserID(externalID)
	if !ok {
		return "", false, nil
	}
	user, err := d.repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	if name := strings.TrimSpace(user.DisplayName); name != "" {
		return name, true, nil
	}
	return user.Email, true, nil
}

func parseUserID(externalID string) (uint, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(externalID), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// StaticLocales is a fixed locale set, typically taken from configuration.
type StaticLocales []string

// SupportedLocales returns the configured codes.
func (l StaticLocales) SupportedLocales(context.Context) ([]string, error) {
	return l, nil
}
