package v1

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nkoryukov/taskboard/internal/models"
	"github.com/nkoryukov/taskboard/internal/services"
)

type apiTokenResponse struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	LastUsedAt *time.Time `json:"last_used_at"`
	CreatedAt  time.Time  `json:"created_at"`
}

func newAPITokenResponse(token *models.APIToken) apiTokenResponse {
	return apiTokenResponse{
		ID:         token.ID,
		Name:       token.Name,
		LastUsedAt: token.LastUsedAt,
		CreatedAt:  token.CreatedAt,
	}
}

func (h *handlerImpl) HandleGetAPITokens(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	tokens, err := h.tokens.ListTokens(c, userID)
	if err != nil {
		h.logger.Warn().
			Err(err).
			Msg("failed to list api tokens")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	response := make([]apiTokenResponse, len(tokens))
	for i, token := range tokens {
		response[i] = newAPITokenResponse(token)
	}
	c.JSON(http.StatusOK, response)
}

type createAPITokenRequest struct {
	Name string `json:"name"`
}

type createAPITokenResponse struct {
	Token apiTokenResponse `json:"token"`
	// PlainTextToken is shown exactly once; only its digest is kept.
	PlainTextToken string `json:"plain_text_token"`
}

func (h *handlerImpl) HandleCreateAPIToken(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	var req createAPITokenRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Warn().
			Err(err).
			Msg("failed to bind request body")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	token, plaintext, err := h.tokens.CreateToken(c, userID, req.Name)
	if err != nil {
		h.logger.Warn().
			Err(err).
			Msg("failed to create api token")
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			abortValidation(c, verr)
		} else {
			abort(c, newStatusTextError(http.StatusInternalServerError))
		}
		return
	}

	c.JSON(http.StatusCreated, createAPITokenResponse{
		Token:          newAPITokenResponse(token),
		PlainTextToken: plaintext,
	})
}

func (h *handlerImpl) HandleDeleteAPIToken(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	tokenID := c.Param("id")
	if tokenID == "" {
		h.logger.Warn().Msg("no token id provided")
		abort(c, newBadRequestError("no token id provided"))
		return
	}

	err := h.tokens.DeleteToken(c, userID, tokenID)
	if err != nil {
		h.logger.Warn().
			Err(err).
			Str("token_id", tokenID).
			Msg("failed to delete api token")
		switch {
		case errors.Is(err, services.ErrTokenForbidden):
			abort(c, newStatusTextError(http.StatusForbidden))
		case errors.Is(err, services.ErrTokenNotFound):
			abort(c, newStatusTextError(http.StatusNotFound))
		default:
			abort(c, newStatusTextError(http.StatusInternalServerError))
		}
		return
	}

	c.Status(http.StatusNoContent)
}
