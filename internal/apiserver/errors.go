package apiserver

import "net/http"

// apiError carries the HTTP status and the short machine-readable code the
// spec's error taxonomy names (§7), e.g. "mapNotFound", "invalidToken".
type apiError struct {
	status int
	code   string
}

func (e apiError) Error() string { return e.code }

var (
	errMapNotFound   = apiError{http.StatusNotFound, "mapNotFound"}
	errBadRequest    = apiError{http.StatusBadRequest, "badRequest"}
	errParseError    = apiError{http.StatusBadRequest, "parseError"}
	errBadAction     = apiError{http.StatusBadRequest, "badAction"}
	errMissingAuth   = apiError{http.StatusUnauthorized, "invalidToken"}
	errInvalidToken  = apiError{http.StatusUnauthorized, "invalidToken"}
	errUnknownToken  = apiError{http.StatusUnauthorized, "unknownToken"}
	errTickForbidden = apiError{http.StatusBadRequest, "badRequest"}
)
