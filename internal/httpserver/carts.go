package httpserver

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"bottlecraft/internal/domain"
	cartsvc "bottlecraft/internal/service/cart"
)

type cartHandler struct {
	svc cartService
}

type quantityRequest struct {
	Quantity *int `json:"quantity"`
}

func (h *cartHandler) create(c *gin.Context) {
	var req cartsvc.CreateInput
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(c, invalidBody(err))
		return
	}
	cart, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toCartResponse(h.svc.Summarize(cart)))
}

func (h *cartHandler) get(c *gin.Context) {
	sum, err := h.svc.Summary(c.Request.Context(), c.Param("cartId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(sum))
}

// update applies a batch of actions in one step.
func (h *cartHandler) update(c *gin.Context) {
	var req cartsvc.UpdateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, invalidBody(err))
		return
	}
	cart, err := h.svc.Update(c.Request.Context(), c.Param("cartId"), req)
	h.respond(c, cart, err)
}

func (h *cartHandler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("cartId")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *cartHandler) addItem(c *gin.Context) {
	var req cartsvc.ItemInput
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, invalidBody(err))
		return
	}
	cart, err := h.svc.AddProduct(c.Request.Context(), c.Param("cartId"), req)
	h.respond(c, cart, err)
}

func (h *cartHandler) addConfigured(c *gin.Context) {
	var req cartsvc.ConfiguredInput
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, invalidBody(err))
		return
	}
	cart, err := h.svc.AddConfigured(c.Request.Context(), c.Param("cartId"), req)
	h.respond(c, cart, err)
}

func (h *cartHandler) changeQuantity(c *gin.Context) {
	index, err := lineIndex(c)
	if err != nil {
		writeError(c, err)
		return
	}
	var req quantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, invalidBody(err))
		return
	}
	if req.Quantity == nil {
		writeError(c, fmt.Errorf("%w: quantity required", domain.ErrInvalidInput))
		return
	}
	cart, err := h.svc.ChangeQuantity(c.Request.Context(), c.Param("cartId"), index, *req.Quantity)
	h.respond(c, cart, err)
}

func (h *cartHandler) removeItem(c *gin.Context) {
	index, err := lineIndex(c)
	if err != nil {
		writeError(c, err)
		return
	}
	cart, err := h.svc.Remove(c.Request.Context(), c.Param("cartId"), index)
	h.respond(c, cart, err)
}

func (h *cartHandler) suggestions(c *gin.Context) {
	out, err := h.svc.Suggestions(c.Request.Context(), c.Param("cartId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": toSuggestions(out)})
}

func (h *cartHandler) respond(c *gin.Context, cart *domain.Cart, err error) {
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(h.svc.Summarize(cart)))
}

func lineIndex(c *gin.Context) (int, error) {
	raw := c.Param("index")
	index, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: line index %q", domain.ErrInvalidInput, raw)
	}
	if index < 0 {
		return 0, fmt.Errorf("line %d: %w", index, domain.ErrLineNotFound)
	}
	return index, nil
}
