package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// authCredentials is the shared payload of sign-up and sign-in.
type authCredentials struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// bindJSONOrBadRequest binds the request body into dst; on failure it writes
// a 400 JSON and reports false.
func (h *Handler) bindJSONOrBadRequest(c *gin.Context, dst any) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return true
	}
	if h.log != nil {
		h.log.Infow("bad_request_body", "path", c.FullPath(), "err", err)
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	return false
}

// signUp registers an operator account and returns its id.
func (h *Handler) signUp(c *gin.Context) {
	var creds authCredentials
	if !h.bindJSONOrBadRequest(c, &creds) {
		return
	}

	id, err := h.services.SignUp(creds.Username, creds.Password)
	if err != nil {
		if h.log != nil {
			h.log.Infow("sign_up_rejected", "username", creds.Username, "err", err)
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id})
}

// signIn checks the credentials and issues a bearer token.
func (h *Handler) signIn(c *gin.Context) {
	var creds authCredentials
	if !h.bindJSONOrBadRequest(c, &creds) {
		return
	}

	token, err := h.services.GenerateToken(creds.Username, creds.Password)
	if err != nil {
		if h.log != nil {
			h.log.Infow("sign_in_rejected", "username", creds.Username, "err", err)
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}
