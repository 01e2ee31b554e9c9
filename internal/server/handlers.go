package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mohammad-safakhou/taskforce/internal/agent"
	"github.com/mohammad-safakhou/taskforce/internal/dispatch"
	"github.com/mohammad-safakhou/taskforce/internal/provider"
)

type dispatchRequest struct {
	Task     string   `json:"task"`
	Agents   []string `json:"agents"`
	Provider string   `json:"provider"`
}

// handleDispatch decodes a dispatch request, fans it out and returns the
// aggregated summary. Unknown agent names do not fail the request; they
// come back in the summary's skipped list.
func (s *Server) handleDispatch(c echo.Context) error {
	var req dispatchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if len(req.Agents) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "agents must not be empty")
	}

	choice, err := provider.ParseChoice(req.Provider, s.defaultLLM)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	names := make([]agent.Name, len(req.Agents))
	for i, raw := range req.Agents {
		// Unknown names stay as-is; the dispatcher reports them skipped.
		names[i] = agent.Name(raw)
	}

	summary, err := s.dispatcher.Dispatch(c.Request().Context(), dispatch.Request{
		Task:     req.Task,
		Agents:   names,
		Provider: choice,
	})
	if err != nil {
		if errors.Is(err, dispatch.ErrEmptyTask) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := s.history.Save(c.Request().Context(), summary); err != nil {
		s.logger.Printf("warn: saving dispatch history failed: %v", err)
	}
	return c.JSON(http.StatusOK, summary)
}

// handleAgents returns the closed agent-name set.
func (s *Server) handleAgents(c echo.Context) error {
	names := agent.Names()
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = string(n)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"agents": out})
}

// handleDispatches returns recent dispatch summaries, newest first.
func (s *Server) handleDispatches(c echo.Context) error {
	limit := 0
	if err := echo.QueryParamsBinder(c).Int("limit", &limit).BindError(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "limit must be an integer")
	}
	summaries, err := s.history.Recent(c.Request().Context(), limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"dispatches": summaries})
}
