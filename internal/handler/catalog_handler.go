package handler

import (
	"Thread_of_Hope/internal/model"
	"Thread_of_Hope/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type EbookHandler struct {
	base
	ebooks *service.EbookService
}

func NewEbookHandler(ebooks *service.EbookService, log logrus.FieldLogger) *EbookHandler {
	return &EbookHandler{base: base{log: log}, ebooks: ebooks}
}

// List 默认只列出已发布的，published=false 仅管理员有效
func (h *EbookHandler) List(c *gin.Context) {
	f := model.EbookFilter{
		PublishedOnly: !(isAdmin(c) && c.Query("published") == "false"),
		Category:      c.Query("category"),
	}
	list, p, err := h.ebooks.List(c.Request.Context(), f, pageFrom(c, service.DefaultCatalogPageSize))
	if err != nil {
		h.fail(c, err, "Failed to fetch ebooks")
		return
	}
	paginated(c, list, p)
}

func (h *EbookHandler) Get(c *gin.Context) {
	e, err := h.ebooks.Get(c.Request.Context(), c.Param("id"), adminFlag(c, "admin"))
	if err != nil {
		h.fail(c, err, "Failed to fetch ebook")
		return
	}
	single(c, e)
}

func (h *EbookHandler) Create(c *gin.Context) {
	var req service.EbookInput
	if !h.bind(c, &req) {
		return
	}
	e, err := h.ebooks.Create(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err, "Failed to create ebook")
		return
	}
	okData(c, e)
}

func (h *EbookHandler) Update(c *gin.Context) {
	var req service.EbookInput
	if !h.bind(c, &req) {
		return
	}
	e, err := h.ebooks.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.fail(c, err, "Failed to update ebook")
		return
	}
	okData(c, e)
}

func (h *EbookHandler) Delete(c *gin.Context) {
	if err := h.ebooks.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err, "Failed to delete ebook")
		return
	}
	ok(c)
}

func (h *EbookHandler) View(c *gin.Context) {
	if err := h.ebooks.RecordView(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err, "Failed to update view count")
		return
	}
	ok(c)
}

func (h *EbookHandler) Download(c *gin.Context) {
	if err := h.ebooks.RecordDownload(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err, "Failed to update download count")
		return
	}
	ok(c)
}

type EventHandler struct {
	base
	events *service.EventService
}

func NewEventHandler(events *service.EventService, log logrus.FieldLogger) *EventHandler {
	return &EventHandler{base: base{log: log}, events: events}
}

func (h *EventHandler) List(c *gin.Context) {
	list, p, err := h.events.List(c.Request.Context(), c.Query("upcoming") == "true", pageFrom(c, service.DefaultCatalogPageSize))
	if err != nil {
		h.fail(c, err, "Failed to fetch events")
		return
	}
	paginated(c, list, p)
}

func (h *EventHandler) Get(c *gin.Context) {
	e, err := h.events.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, "Failed to fetch event")
		return
	}
	single(c, e)
}

func (h *EventHandler) Create(c *gin.Context) {
	var req service.EventInput
	if !h.bind(c, &req) {
		return
	}
	e, err := h.events.Create(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err, "Failed to create event")
		return
	}
	okData(c, e)
}

func (h *EventHandler) Update(c *gin.Context) {
	var req service.EventInput
	if !h.bind(c, &req) {
		return
	}
	e, err := h.events.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.fail(c, err, "Failed to update event")
		return
	}
	okData(c, e)
}

func (h *EventHandler) Delete(c *gin.Context) {
	if err := h.events.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err, "Failed to delete event")
		return
	}
	ok(c)
}

type GalleryHandler struct {
	base
	gallery *service.GalleryService
}

func NewGalleryHandler(gallery *service.GalleryService, log logrus.FieldLogger) *GalleryHandler {
	return &GalleryHandler{base: base{log: log}, gallery: gallery}
}

func (h *GalleryHandler) List(c *gin.Context) {
	list, p, err := h.gallery.List(c.Request.Context(), c.Query("category"), pageFrom(c, service.DefaultCatalogPageSize))
	if err != nil {
		h.fail(c, err, "Failed to fetch gallery items")
		return
	}
	paginated(c, list, p)
}

func (h *GalleryHandler) Get(c *gin.Context) {
	g, err := h.gallery.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, "Failed to fetch gallery item")
		return
	}
	single(c, g)
}

func (h *GalleryHandler) Create(c *gin.Context) {
	var req service.GalleryInput
	if !h.bind(c, &req) {
		return
	}
	g, err := h.gallery.Create(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err, "Failed to create gallery item")
		return
	}
	okData(c, g)
}

func (h *GalleryHandler) Update(c *gin.Context) {
	var req service.GalleryInput
	if !h.bind(c, &req) {
		return
	}
	g, err := h.gallery.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.fail(c, err, "Failed to update gallery item")
		return
	}
	okData(c, g)
}

func (h *GalleryHandler) Delete(c *gin.Context) {
	if err := h.gallery.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err, "Failed to delete gallery item")
		return
	}
	ok(c)
}
