package api

import (
	"encoding/json"
	"fmt"

	"github.com/gin-gonic/gin"
	contractx "github.com/tanpawarit/qbd-assistant/agent/contract"
)

// bindJSON decodes the request body into obj. Bodies are partial records,
// so undeclared fields are rejected.
func bindJSON(c *gin.Context, obj any) error {
	dec := json.NewDecoder(c.Request.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(obj); err != nil {
		return fmt.Errorf("%w: %v", contractx.ErrValidation, err)
	}
	return nil
}
