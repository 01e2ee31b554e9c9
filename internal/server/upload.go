package server

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/mohammad-safakhou/taskforce/internal/agent"
	"github.com/mohammad-safakhou/taskforce/internal/dispatch"
	"github.com/mohammad-safakhou/taskforce/internal/notify"
)

// handleUpload stores an uploaded file under the uploads dir with a
// sanitized name and runs the Data Processing agent on it. The agent's
// outcome is returned inline so a failed parse is visible per-file, not as
// an opaque server error.
func (s *Server) handleUpload(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "no file part")
	}
	filename := sanitizeFilename(fh.Filename)
	if filename == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "no selected file")
	}

	if err := os.MkdirAll(s.uploadsDir, 0o755); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	path := filepath.Join(s.uploadsDir, filename)

	src, err := fh.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	defer src.Close()
	dst, err := os.Create(path)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	s.bus.Publish(notify.NewEvent("File Upload",
		fmt.Sprintf("File %s uploaded successfully", filename)))

	summary, err := s.dispatcher.Dispatch(c.Request().Context(), dispatch.Request{
		Task:   path,
		Agents: []agent.Name{agent.DataProcessing},
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":  fmt.Sprintf("File %s uploaded successfully", filename),
		"path":     path,
		"outcomes": summary.Outcomes,
	})
}

// sanitizeFilename strips any path components and rejects names that are
// only dots. The core never sees an unsanitized path.
func sanitizeFilename(name string) string {
	name = filepath.Base(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, string(os.PathSeparator), "_")
	if name == "." || name == ".." || name == "/" || name == "" {
		return ""
	}
	return name
}
