package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/cryptocreeper94-sudo/orby-sub003/internal/assetnumber"
	"github.com/cryptocreeper94-sudo/orby-sub003/internal/ledger"
	"github.com/cryptocreeper94-sudo/orby-sub003/internal/record"
	"github.com/cryptocreeper94-sudo/orby-sub003/internal/stamp"
	"github.com/cryptocreeper94-sudo/orby-sub003/internal/verification"
)

var ErrInvalidBody = errors.New("invalid request body")

// httpError maps service errors to HTTP status codes.
func httpError(err error) *echo.HTTPError {
	var he *echo.HTTPError
	switch {
	case errors.As(err, &he):
		return he
	case errors.Is(err, ErrInvalidBody),
		errors.Is(err, ledger.ErrUnknownNetwork),
		errors.Is(err, assetnumber.ErrMalformed),
		errors.Is(err, record.ErrUnknownEntityType),
		errors.Is(err, record.ErrMissingEntityID),
		errors.Is(err, record.ErrInvalidTimestamp),
		errors.Is(err, stamp.ErrInvalidRequest):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error()).SetInternal(err)
	case errors.Is(err, stamp.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error()).SetInternal(err)
	case errors.Is(err, stamp.ErrAlreadyAnchored):
		return echo.NewHTTPError(http.StatusConflict, err.Error()).SetInternal(err)
	case errors.Is(err, verification.ErrFingerprint):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error()).SetInternal(err)
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error()).SetInternal(err)
	}
}

// decodeJSON reads a JSON body keeping numbers exact, so records hash the
// same as their textual form.
func decodeJSON(r io.Reader, target any) error {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	dec.DisallowUnknownFields()

	if err := dec.Decode(target); err != nil {
		return errors.Wrap(ErrInvalidBody, err.Error())
	}

	return nil
}
