package api

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/cryptocreeper94-sudo/orby-sub003/internal/crypto"
	"github.com/cryptocreeper94-sudo/orby-sub003/internal/ledger"
	"github.com/cryptocreeper94-sudo/orby-sub003/internal/record"
	"github.com/cryptocreeper94-sudo/orby-sub003/internal/verification"
)

type fingerprintResponse struct {
	DataHash  string `json:"dataHash"`
	Canonical string `json:"canonical,omitempty"`
}

type contentHashResponse struct {
	DataHash string `json:"dataHash"`
	Size     int64  `json:"size"`
}

func (s *Server) health(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func (s *Server) network(c echo.Context) (ledger.Network, error) {
	raw := c.QueryParam(QueryNetwork)
	if raw == "" {
		return s.opts.Network, nil
	}

	return ledger.ParseNetwork(raw)
}

func (s *Server) readRequest(c echo.Context) (*record.Request, error) {
	req := &record.Request{}
	if err := decodeJSON(c.Request().Body, req); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	return req, nil
}

func (s *Server) fingerprint(c echo.Context) error {
	req, err := s.readRequest(c)
	if err != nil {
		return httpError(err)
	}

	canonical, err := crypto.Canonicalize(req)
	if err != nil {
		return httpError(errors.Wrap(verification.ErrFingerprint, err.Error()))
	}

	return c.JSON(http.StatusOK, &fingerprintResponse{
		DataHash:  crypto.FingerprintBytes(canonical).Hex(),
		Canonical: string(canonical),
	})
}

// anchor fingerprints and anchors a caller-built record. A fingerprint
// failure still answers with the failed outcome as body.
func (s *Server) anchor(c echo.Context) error {
	network, err := s.network(c)
	if err != nil {
		return httpError(err)
	}
	req, err := s.readRequest(c)
	if err != nil {
		return httpError(err)
	}

	out, err := s.orchestrator.Anchor(c.Request().Context(), req, network)
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, out)
	}

	return c.JSON(http.StatusOK, out)
}

func (s *Server) contentHash(c echo.Context) error {
	body := io.LimitReader(c.Request().Body, s.opts.MaxContentBytes+1)
	counter := &countingReader{r: body}

	digest, err := crypto.FingerprintReader(counter)
	if err != nil {
		return httpError(errors.Wrap(ErrInvalidBody, err.Error()))
	}
	if counter.n > s.opts.MaxContentBytes {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "content exceeds limit")
	}

	return c.JSON(http.StatusOK, &contentHashResponse{
		DataHash: digest.Hex(),
		Size:     counter.n,
	})
}

func (s *Server) diagnostics(c echo.Context) error {
	network, err := s.network(c)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, s.prober.Probe(c.Request().Context(), network))
}

type countingReader struct {
	r io.Reader
	n int64
}

func (cr *countingReader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	cr.n += int64(n)

	return n, err
}
