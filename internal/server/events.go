package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const heartbeatInterval = 15 * time.Second

// handleEvents streams notification bus events to the client as
// Server-Sent Events. The subscription starts at connect time; earlier
// events are never replayed.
func (s *Server) handleEvents(c echo.Context) error {
	resp := c.Response()
	flusher, ok := resp.Writer.(http.Flusher)
	if !ok {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "streaming unsupported")
	}
	resp.Header().Set(echo.HeaderContentType, "text/event-stream")
	resp.Header().Set(echo.HeaderCacheControl, "no-cache")
	resp.Header().Set("Connection", "keep-alive")
	resp.WriteHeader(http.StatusOK)

	sub := s.bus.Subscribe()
	defer s.bus.Unsubscribe(sub)

	ctx := c.Request().Context()
	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-heartbeat.C:
			if _, err := resp.Write([]byte(": ping\n\n")); err != nil {
				return nil
			}
			flusher.Flush()
		case ev, open := <-sub.C:
			if !open {
				return nil
			}
			data, err := json.Marshal(ev)
			if err != nil {
				s.logger.Printf("warn: marshal event: %v", err)
				continue
			}
			if _, err := resp.Write([]byte("event: agent_update\n")); err != nil {
				return nil
			}
			if _, err := resp.Write([]byte("data: " + string(data) + "\n\n")); err != nil {
				return nil
			}
			flusher.Flush()
		}
	}
}
