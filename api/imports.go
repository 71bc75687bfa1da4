package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	contractx "github.com/tanpawarit/qbd-assistant/agent/contract"
	"github.com/tanpawarit/qbd-assistant/importer"
)

func (s *Server) importInventoryItems(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.cfg.MaxUploadBytes)

	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(c, fmt.Errorf("%w: file exceeds %d bytes", contractx.ErrValidation, s.cfg.MaxUploadBytes))
			return
		}
		respondError(c, fmt.Errorf("%w: multipart field \"file\" is required", contractx.ErrValidation))
		return
	}

	f, err := header.Open()
	if err != nil {
		respondError(c, fmt.Errorf("open upload: %w", err))
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, s.cfg.MaxUploadBytes+1))
	if err != nil {
		respondError(c, fmt.Errorf("read upload: %w", err))
		return
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		respondError(c, fmt.Errorf("%w: file exceeds %d bytes", contractx.ErrValidation, s.cfg.MaxUploadBytes))
		return
	}

	parsed, err := importer.Parse(data, header.Filename)
	if err != nil {
		respondError(c, fmt.Errorf("%w: %v", contractx.ErrValidation, err))
		return
	}

	res := s.batch.Process(c.Request.Context(), parsed)
	s.metrics.observeImport(res)

	respond(c, http.StatusOK, res, fmt.Sprintf("Imported %d of %d rows; %d failed.", res.Successful, res.Total, res.Failed))
}
