package handler

import (
	"errors"
	"io"
	"net/http"

	"Thread_of_Hope/internal/pkg"
	"Thread_of_Hope/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// multipart 头部等额外开销
const multipartOverhead = 1 << 20

type UploadHandler struct {
	base
	uploads *service.UploadService
}

func NewUploadHandler(uploads *service.UploadService, log logrus.FieldLogger) *UploadHandler {
	return &UploadHandler{base: base{log: log}, uploads: uploads}
}

func (h *UploadHandler) Image(c *gin.Context) {
	data, name, ok := h.read(c, service.FieldImage)
	if !ok {
		return
	}
	res, err := h.uploads.SaveImage(c.Request.Context(), name, data)
	if err != nil {
		h.fail(c, err, "Upload failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "fileUrl": res.FileURL, "filename": res.Filename})
}

func (h *UploadHandler) Ebook(c *gin.Context) {
	data, name, ok := h.read(c, service.FieldEbook)
	if !ok {
		return
	}
	res, err := h.uploads.SaveEbook(c.Request.Context(), name, data)
	if err != nil {
		h.fail(c, err, "Upload failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "fileUrl": res.FileURL, "filename": res.Filename})
}

// read 整个请求体受上限约束，超限直接 413，不落盘
func (h *UploadHandler) read(c *gin.Context, field string) ([]byte, string, bool) {
	limit := h.uploads.MaxSize(field)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit+multipartOverhead)

	fh, err := c.FormFile(field)
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			h.fail(c, pkg.TooLarge("File too large"), "Upload failed")
			return nil, "", false
		}
		h.fail(c, pkg.BadRequest("No file uploaded"), "Upload failed")
		return nil, "", false
	}
	if fh.Size > limit {
		h.fail(c, pkg.TooLarge("File too large"), "Upload failed")
		return nil, "", false
	}
	f, err := fh.Open()
	if err != nil {
		h.fail(c, err, "Upload failed")
		return nil, "", false
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		h.fail(c, err, "Upload failed")
		return nil, "", false
	}
	return data, fh.Filename, true
}
