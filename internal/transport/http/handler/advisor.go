package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"visaguide/internal/advisor"
	"visaguide/internal/transport/http/response"
)

type AdvisorHandler struct{}

func NewAdvisorHandler() *AdvisorHandler {
	return &AdvisorHandler{}
}

func (h *AdvisorHandler) PredictSuccess(c *gin.Context) {
	var profile advisor.Profile
	if err := c.ShouldBindJSON(&profile); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	prediction, err := advisor.Predict(profile)
	if err != nil {
		writeAdvisorError(c, err)
		return
	}
	response.OK(c, prediction)
}

func (h *AdvisorHandler) Recommend(c *gin.Context) {
	var profile advisor.RecommendationProfile
	if err := c.ShouldBindJSON(&profile); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	recs, err := advisor.Recommend(profile)
	if err != nil {
		writeAdvisorError(c, err)
		return
	}
	response.OK(c, recs)
}

func writeAdvisorError(c *gin.Context, err error) {
	if errors.Is(err, advisor.ErrInvalidProfile) {
		response.Error(c, http.StatusBadRequest, response.CodeInvalidProfile, "please fill in all required fields with valid values")
		return
	}
	response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "scoring failed")
}
