package handlers

import (
	"github.com/gin-gonic/gin"

	"varibulk/internal/domain/catalogs/attribute"
	"varibulk/internal/domain/variant"
	"varibulk/internal/infrastructure/http/v1/dto"
)

// AttributeHandler serves the Item Attribute catalog.
type AttributeHandler struct {
	*BaseHandler
	service  *attribute.Service
	variants *variant.Service
}

// NewAttributeHandler creates a new attribute handler.
func NewAttributeHandler(base *BaseHandler, service *attribute.Service, variants *variant.Service) *AttributeHandler {
	return &AttributeHandler{BaseHandler: base, service: service, variants: variants}
}

// Get handles GET /attributes/:name
func (h *AttributeHandler) Get(c *gin.Context) {
	attr, err := h.service.Get(c.Request.Context(), c.Param("name"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, attr)
}

// SearchValues handles GET /attributes/:name/values?txt=&start=&pageLen=
func (h *AttributeHandler) SearchValues(c *gin.Context) {
	var req dto.AttributeValuesRequest
	if !h.BindQuery(c, &req) {
		return
	}

	options, err := h.variants.SearchAttributeValues(c.Request.Context(), c.Param("name"), req.Text, req.Start, req.PageLen)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, options)
}

// Create handles POST /attributes
func (h *AttributeHandler) Create(c *gin.Context) {
	var req dto.CreateAttributeRequest
	if !h.BindJSON(c, &req) {
		return
	}

	attr := req.ToAttribute()
	if err := h.service.Create(c.Request.Context(), attr); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, attr)
}
