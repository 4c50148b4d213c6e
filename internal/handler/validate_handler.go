package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/igorfd2009/cookitie-pix/internal/dto"
	"github.com/igorfd2009/cookitie-pix/internal/pix"
)

type ValidateHandler struct{}

func NewValidateHandler() *ValidateHandler {
	return &ValidateHandler{}
}

// Validate runs the pure structural check over a submitted code. Malformed
// codes are a 200 with valid=false, not an error: diagnostics are the point.
func (h *ValidateHandler) Validate(c *gin.Context) {
	var req dto.ValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "validation failed: " + err.Error(),
		})
		return
	}

	res := pix.Validate(req.Code)
	c.JSON(http.StatusOK, dto.ValidationResponse{
		Valid:       res.Valid,
		Fields:      res.Fields,
		Errors:      res.Errors,
		ProvidedCRC: res.ProvidedCRC,
		ExpectedCRC: res.ExpectedCRC,
	})
}
