package crud

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"tweetClone/errs"
)

// first is a helper for getting the first database record that matches a given query.
// A missing record is returned as errs.ENOTFOUND carrying the passed in message.
func first(db *gorm.DB, dst interface{}, notFoundMsg string) error {
	err := db.First(dst).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.Errorf(errs.ENOTFOUND, "%s", notFoundMsg)
	}
	return err
}

// exists reports whether any record of model matches the given condition.
func exists(db *gorm.DB, model interface{}, query string, args ...interface{}) (bool, error) {
	var count int64
	err := db.Model(model).Where(query, args...).Limit(1).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// isUniqueViolation reports whether err was caused by a unique index. The database
// opened in package database translates this to gorm.ErrDuplicatedKey; the message
// checks cover dialects that don't translate.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
