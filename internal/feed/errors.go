package feed

import "github.com/unixchange/unixchange-sync-service/internal/apperrors"

var errUnknownMount = apperrors.NewValidationError("mountId", "unknown feed mount")
