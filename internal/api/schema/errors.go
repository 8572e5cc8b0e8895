package schema

import (
	"errors"
	"log/slog"

	"Postboard/internal/core/posts"
)

// Error codes reported in the extensions.code field of GraphQL errors
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeStorageUnavailable = "STORAGE_UNAVAILABLE"
	CodeInternal           = "INTERNAL_SERVER_ERROR"
)

// resolverError is returned from resolvers so graphql-go copies its
// extensions into the formatted error.
type resolverError struct {
	message string
	code    string
	field   string
}

func (e *resolverError) Error() string {
	return e.message
}

// Extensions implements gqlerrors.ExtendedError
func (e *resolverError) Extensions() map[string]interface{} {
	ext := map[string]interface{}{"code": e.code}
	if e.field != "" {
		ext["field"] = e.field
	}
	return ext
}

// toResolverError maps service errors to client-facing GraphQL errors
func toResolverError(op string, err error) error {
	var valErr *posts.ValidationError
	switch {
	case errors.As(err, &valErr):
		return &resolverError{message: valErr.Message, code: CodeValidation, field: valErr.Field}

	case posts.IsStorageUnavailable(err):
		slog.Warn("post storage unavailable", "operation", op, "error", err)
		return &resolverError{message: "post storage is unavailable", code: CodeStorageUnavailable}

	default:
		// Don't leak internal error details to clients
		slog.Error("unexpected error in resolver", "operation", op, "error", err)
		return &resolverError{message: "an internal error occurred", code: CodeInternal}
	}
}
