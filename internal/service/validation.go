package service

import (
	"database/sql"
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/siakad-api/pkg/database"
	appErrors "github.com/noah-isme/siakad-api/pkg/errors"
)

const clockTag = "clock"

// NewValidator returns a validator reporting json field names and understanding the "clock" tag.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	registerClock(v)
	return v
}

func registerClock(v *validator.Validate) {
	_ = v.RegisterValidation(clockTag, func(fl validator.FieldLevel) bool {
		_, err := ParseClock(fl.Field().String())
		return err == nil
	})
}

// validationError converts validator output into a VALIDATION_ERROR carrying the offending fields.
func validationError(err error, message string) error {
	appErr := appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fe.Field())
		}
		appErr.Details = map[string]interface{}{"fields": fields}
	}
	return appErr
}

// failedOn reports whether any validation failure used tag.
func failedOn(err error, tag string) bool {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return false
	}
	for _, fe := range verrs {
		if fe.Tag() == tag {
			return true
		}
	}
	return false
}

// lookupError maps a repository lookup failure to NOT_FOUND or STORAGE_ERROR.
func lookupError(err error, entity string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, entity+" not found")
	}
	return appErrors.Storage(err, "failed to load "+entity)
}

// writeError maps a failed write. Unique violations become CONFLICT with conflictMsg.
func writeError(err error, conflictMsg, storageMsg string) error {
	if database.IsUniqueViolation(err) {
		return appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, conflictMsg)
	}
	return appErrors.Storage(err, storageMsg)
}

func invalidFilter(field, value string) error {
	return appErrors.Clone(appErrors.ErrValidation, "invalid "+field+" filter").WithDetails(map[string]interface{}{
		field: value,
	})
}

// updateError maps a failed update. A row that vanished since it was loaded is NOT_FOUND.
func updateError(err error, entity, conflictMsg string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return lookupError(err, entity)
	}
	return writeError(err, conflictMsg, "failed to update "+entity)
}

// deleteError maps a failed delete the same way.
func deleteError(err error, entity string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return lookupError(err, entity)
	}
	return appErrors.Storage(err, "failed to delete "+entity)
}

// passThrough keeps typed application errors and wraps anything else as a storage failure.
func passThrough(err error, storageMsg string) error {
	var appErr *appErrors.Error
	if errors.As(err, &appErr) {
		return err
	}
	return appErrors.Storage(err, storageMsg)
}
