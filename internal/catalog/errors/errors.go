package errors

import "errors"

var ErrCatalogUnavailable = errors.New("catalog service unavailable")
