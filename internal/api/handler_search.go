package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jeremy-gibrat/hello-world-cloud/internal/search"
	apperrors "github.com/jeremy-gibrat/hello-world-cloud/pkg/errors"
	"github.com/jeremy-gibrat/hello-world-cloud/pkg/logger"
	"github.com/jeremy-gibrat/hello-world-cloud/pkg/models"
)

type SearchService interface {
	Search(ctx context.Context, index string, size int) (models.SearchResult, error)
	IndexDocument(ctx context.Context, index string, doc map[string]interface{}) (models.IndexResult, error)
	ListIndices(ctx context.Context) (models.IndicesResponse, error)
}

// SearchHandler exposes generic search-cluster operations.
type SearchHandler struct {
	BaseHandler
	Service SearchService
}

func NewSearchHandler(service SearchService, log logger.Logger) *SearchHandler {
	return &SearchHandler{BaseHandler: BaseHandler{Logger: log}, Service: service}
}

// Search godoc
// @Summary      Search an index
// @Description  Returns the newest documents of an index by @timestamp
// @Tags         elasticsearch
// @Produce      json
// @Param        index  path      string  true   "Index name"
// @Param        size   query     int     false  "Maximum number of hits"  default(10)
// @Success      200    {object}  models.SearchResult
// @Failure      400    {object}  map[string]string
// @Failure      500    {object}  map[string]string
// @Router       /api/elasticsearch/search/{index} [get]
func (h *SearchHandler) Search(c *gin.Context) {
	index := c.Param("index")

	size := search.DefaultSize
	if raw, ok := c.GetQuery("size"); ok {
		n, err := strconv.Atoi(raw)
		if err != nil {
			h.HandleError(c, apperrors.ErrValidation.
				WithMessage("size must be a positive integer").
				WithDetail("index", index))
			return
		}
		size = n
	}

	result, err := h.Service.Search(c.Request.Context(), index, size)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// IndexDocument godoc
// @Summary      Index a document
// @Description  Stores an arbitrary JSON object stamped with @timestamp
// @Tags         elasticsearch
// @Accept       json
// @Produce      json
// @Param        index     path      string                  true  "Index name"
// @Param        document  body      map[string]interface{}  true  "Document"
// @Success      200       {object}  models.IndexResult
// @Failure      400       {object}  map[string]string
// @Failure      500       {object}  map[string]string
// @Router       /api/elasticsearch/index/{index} [post]
func (h *SearchHandler) IndexDocument(c *gin.Context) {
	index := c.Param("index")

	var doc map[string]interface{}
	if err := c.ShouldBindJSON(&doc); err != nil {
		h.HandleError(c, bindError(err).WithDetail("index", index))
		return
	}
	if doc == nil {
		h.HandleError(c, apperrors.ErrValidation.
			WithMessage("document must be a JSON object").
			WithDetail("index", index))
		return
	}

	result, err := h.Service.IndexDocument(c.Request.Context(), index, doc)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ListIndices godoc
// @Summary      List indices
// @Description  Returns every index name not starting with a dot
// @Tags         elasticsearch
// @Produce      json
// @Success      200  {object}  models.IndicesResponse
// @Failure      500  {object}  map[string]string
// @Router       /api/elasticsearch/indices [get]
func (h *SearchHandler) ListIndices(c *gin.Context) {
	result, err := h.Service.ListIndices(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
