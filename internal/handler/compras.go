package handler

import (
	"net/http"
	"strconv"

	"almacenpos/internal/apierror"
	"almacenpos/internal/dto"
	"almacenpos/internal/repository"
	"almacenpos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ComprasHandler struct {
	svc        service.CompraService
	inventario service.InventarioService
	// diasAlerta is the default lookahead for /por-vencer.
	diasAlerta int
}

func NewComprasHandler(svc service.CompraService, inventario service.InventarioService, diasAlerta int) *ComprasHandler {
	return &ComprasHandler{svc: svc, inventario: inventario, diasAlerta: diasAlerta}
}

func (h *ComprasHandler) RegistrarCompra(c *gin.Context) {
	var req dto.RegistrarCompraRequest
	if !bindAndValidate(c, &req) {
		return
	}
	lote, err := h.svc.RegistrarCompra(c.Request.Context(), req, actor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, compraResponse(lote))
}

func (h *ComprasHandler) Listar(c *gin.Context) {
	filter := repository.CompraFilter{
		Page:  queryInt(c, "page", 1),
		Limit: queryInt(c, "limit", 50),
	}
	if raw := c.Query("producto_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("producto_id invalido"))
			return
		}
		filter.ProductoID = &id
	}

	lotes, total, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	data := make([]dto.CompraResponse, len(lotes))
	for i := range lotes {
		data[i] = compraResponse(&lotes[i])
	}
	c.JSON(http.StatusOK, dto.CompraListResponse{
		Data: data, Total: total, Page: filter.Page, Limit: filter.Limit,
	})
}

func (h *ComprasHandler) ObtenerPorID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	lote, err := h.svc.ObtenerPorID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, compraResponse(lote))
}

func (h *ComprasHandler) PorVencer(c *gin.Context) {
	dias := queryInt(c, "dias", h.diasAlerta)
	resp, err := h.inventario.PorVencer(c.Request.Context(), dias)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func queryInt(c *gin.Context, key string, def int) int {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
