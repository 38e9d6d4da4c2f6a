package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cryptocreeper94-sudo/orby-sub003/internal/record"
	"github.com/cryptocreeper94-sudo/orby-sub003/internal/stamp"
)

const ParameterStampID = "id"

type createStampRequest struct {
	EntityType  record.EntityType `json:"entityType"`
	EntityID    string            `json:"entityId"`
	AssetNumber string            `json:"assetNumber,omitempty"`
	UserID      string            `json:"userId,omitempty"`
	Data        map[string]any    `json:"data"`
}

type listStampsResponse struct {
	Stamps []*stamp.Stamp `json:"stamps"`
}

func (s *Server) createStamp(c echo.Context) error {
	body := &createStampRequest{}
	if err := decodeJSON(c.Request().Body, body); err != nil {
		return httpError(err)
	}

	req := s.opts.Platform.PrepareRecord(body.EntityType, body.EntityID, body.AssetNumber, body.UserID, body.Data, s.now())
	st, err := s.stamps.Create(req)
	if err != nil {
		return httpError(err)
	}
	s.LogDebugf("stamp %s created as %s", st.ID, st.AssetNumber)

	return c.JSON(http.StatusCreated, st)
}

func (s *Server) getStamp(c echo.Context) error {
	st, err := s.stamps.Get(c.Param(ParameterStampID))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, st)
}

func (s *Server) listStamps(c echo.Context) error {
	stamps, err := s.stamps.List()
	if err != nil {
		return httpError(err)
	}
	if stamps == nil {
		stamps = []*stamp.Stamp{}
	}

	return c.JSON(http.StatusOK, &listStampsResponse{Stamps: stamps})
}

// anchorStamp anchors a pending stamp and records the outcome, failed ones
// included.
func (s *Server) anchorStamp(c echo.Context) error {
	network, err := s.network(c)
	if err != nil {
		return httpError(err)
	}

	id := c.Param(ParameterStampID)
	st, err := s.stamps.Claim(id)
	if err != nil {
		return httpError(err)
	}

	out, anchorErr := s.orchestrator.Anchor(c.Request().Context(), st.Request(), network)

	updated, err := s.stamps.RecordOutcome(id, out)
	if err != nil {
		s.stamps.Release(id)
		return httpError(err)
	}
	if anchorErr != nil {
		return c.JSON(http.StatusUnprocessableEntity, updated)
	}

	return c.JSON(http.StatusOK, updated)
}
