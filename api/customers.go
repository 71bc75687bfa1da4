package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	contractx "github.com/tanpawarit/qbd-assistant/agent/contract"
	conductorx "github.com/tanpawarit/qbd-assistant/pkg/conductor"
	"github.com/tanpawarit/qbd-assistant/pkg/validation"
)

type listQuery struct {
	Limit          int    `form:"limit"`
	Cursor         string `form:"cursor"`
	NameContains   string `form:"nameContains"`
	NameStartsWith string `form:"nameStartsWith"`
	NameEndsWith   string `form:"nameEndsWith"`
	Status         string `form:"status"`
}

func (s *Server) listCustomers(c *gin.Context) {
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondError(c, fmt.Errorf("%w: %v", contractx.ErrValidation, err))
		return
	}
	params := conductorx.ListParams(q)
	if err := validation.Validate(params); err != nil {
		respondError(c, err)
		return
	}

	ctx, cancel := s.callContext(c)
	defer cancel()
	page, err := s.customers.ListCustomers(ctx, params)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, page, "")
}

func (s *Server) getCustomer(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	ctx, cancel := s.callContext(c)
	defer cancel()
	customer, err := s.customers.RetrieveCustomer(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, customer, "")
}

func (s *Server) createCustomer(c *gin.Context) {
	var params conductorx.CustomerCreateParams
	if err := bindJSON(c, &params); err != nil {
		respondError(c, err)
		return
	}
	if err := validation.Validate(params); err != nil {
		respondError(c, err)
		return
	}

	ctx, cancel := s.callContext(c)
	defer cancel()
	customer, err := s.customers.CreateCustomer(ctx, params)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, customer, "")
}

// updateCustomer forwards the caller's revisionNumber untouched; a stale
// token is rejected by the remote system.
func (s *Server) updateCustomer(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	var params conductorx.CustomerUpdateParams
	if err := bindJSON(c, &params); err != nil {
		respondError(c, err)
		return
	}
	if err := validation.Validate(params); err != nil {
		respondError(c, err)
		return
	}

	ctx, cancel := s.callContext(c)
	defer cancel()
	customer, err := s.customers.UpdateCustomer(ctx, id, params)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, customer, "")
}

func (s *Server) health(c *gin.Context) {
	ctx, cancel := s.callContext(c)
	defer cancel()
	res, err := s.customers.HealthCheck(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, res, "")
}
