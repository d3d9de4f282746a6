// Package http provides HTTP handlers for mediated resource operations.
// Handlers extract the authenticated principal and pass it explicitly to the resource mediator.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	authDomain "github.com/dapnet/dbgateway/internal/auth/domain"
	authHTTP "github.com/dapnet/dbgateway/internal/auth/http"
	apperrors "github.com/dapnet/dbgateway/internal/errors"
	"github.com/dapnet/dbgateway/internal/httputil"
	resourceDomain "github.com/dapnet/dbgateway/internal/resource/domain"
	"github.com/dapnet/dbgateway/internal/resource/http/dto"
	resourceUseCase "github.com/dapnet/dbgateway/internal/resource/usecase"
)

// ResourceHandler handles HTTP requests for one resource definition.
type ResourceHandler struct {
	mediator resourceUseCase.Mediator
	logger   *slog.Logger
}

// NewResourceHandler creates a new resource handler with required dependencies.
func NewResourceHandler(mediator resourceUseCase.Mediator, logger *slog.Logger) *ResourceHandler {
	return &ResourceHandler{
		mediator: mediator,
		logger:   logger,
	}
}

// Definition returns the definition of the mediated resource.
func (h *ResourceHandler) Definition() *resourceDomain.Definition {
	return h.mediator.Definition()
}

// ListHandler returns a page of redacted records.
// GET /<resource>?limit=&skip=&startkey=&endkey=&descending= - Requires <resource>.read.
// Returns 200 OK with {"total_rows": n, "rows": [...]}.
func (h *ResourceHandler) ListHandler(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}

	skip, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	descending, err := httputil.ParseBool(c, "descending")
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	opts := resourceDomain.ListOptions{
		Limit:      limit,
		Skip:       skip,
		StartKey:   c.Query("startkey"),
		EndKey:     c.Query("endkey"),
		Descending: descending,
	}

	list, err := h.mediator.List(c.Request.Context(), principal, opts)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapDocumentListToResponse(list))
}

// NamesHandler returns the pass-through names listing.
// GET /<resource>/<names route> - Requires <resource>.list.
func (h *ResourceHandler) NamesHandler(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}

	names, err := h.mediator.Names(c.Request.Context(), principal)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", names)
}

// GetHandler returns a single redacted record.
// GET /<resource>/:id - Requires <resource>.read or ownership of the record.
func (h *ResourceHandler) GetHandler(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}

	doc, err := h.mediator.Get(c.Request.Context(), principal, c.Param("id"))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, doc)
}

// PutHandler creates or updates a record depending on the presence of _rev in the body.
// PUT /<resource> - Requires <resource>.create, or <resource>.update or ownership for updates.
// Returns 201 Created or 200 OK with {"id", "rev"}.
func (h *ResourceHandler) PutHandler(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}

	payload, err := dto.DecodeDocument(c.Request.Body)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	result, err := h.mediator.Put(c.Request.Context(), principal, payload)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	c.JSON(status, dto.MapWriteResultToResponse(result))
}

// DeleteHandler removes a record revision.
// DELETE /<resource>/:id?rev= - Requires <resource>.delete or ownership of the record.
// Returns 204 No Content.
func (h *ResourceHandler) DeleteHandler(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}

	if err := h.mediator.Delete(c.Request.Context(), principal, c.Param("id"), c.Query("rev")); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}

// principal extracts the principal stored by the authentication middleware and
// writes a 401 response when it is missing.
func (h *ResourceHandler) principal(c *gin.Context) (*authDomain.Principal, bool) {
	principal, ok := authHTTP.GetPrincipal(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return nil, false
	}
	return principal, true
}
