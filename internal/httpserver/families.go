package httpserver

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"bottlecraft/internal/configurator"
	"bottlecraft/internal/domain"
)

type familyHandler struct {
	svc catalogService
}

func (h *familyHandler) list(c *gin.Context) {
	fams := h.svc.List()
	c.JSON(http.StatusOK, gin.H{"count": len(fams), "results": fams})
}

func (h *familyHandler) get(c *gin.Context) {
	fam, err := h.svc.Get(c.Param("familyKey"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toFamilyResponse(fam))
}

// quote prices a selection without a cart. An empty body quotes the
// family's starting state.
func (h *familyHandler) quote(c *gin.Context) {
	var req configurator.Choices
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(c, invalidBody(err))
		return
	}
	q, err := h.svc.Quote(c.Param("familyKey"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toQuoteResponse(q))
}

func (h *familyHandler) products(c *gin.Context) {
	products := h.svc.Products()
	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	c.JSON(http.StatusOK, gin.H{"count": len(out), "results": out})
}

func (h *familyHandler) product(c *gin.Context) {
	p, err := h.svc.Product(c.Param("productKey"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(*p))
}

func invalidBody(err error) error {
	return errors.Join(domain.ErrInvalidInput, err)
}
