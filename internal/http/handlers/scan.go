package handlers

import (
	"errors"
	"io"
	"net/http"

	"ecogrow/internal/service"

	"github.com/gin-gonic/gin"
)

// Scan accepts multipart form fields tree_name and image.
func (h *Handler) Scan(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.cfg.MaxImageBytes+1<<20)

	req := service.ScanRequest{TreeName: c.PostForm("tree_name")}

	fh, err := c.FormFile("image")
	switch {
	case err == nil:
		if fh.Size > h.cfg.MaxImageBytes {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image too large"})
			return
		}
		f, err := fh.Open()
		if err != nil {
			fail(c, err)
			return
		}
		defer f.Close()
		// only the presence of bytes matters
		req.Image, err = io.ReadAll(io.LimitReader(f, 512))
		if err != nil {
			fail(c, err)
			return
		}
	case errors.Is(err, http.ErrMissingFile):
	default:
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image too large"})
			return
		}
	}

	res, err := h.Scans.Scan(c.Request.Context(), session(c), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *Handler) ListTrees(c *gin.Context) {
	sum, err := h.Scans.ListTrees(c.Request.Context(), session(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}
