package controllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/o1egl/paseto"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"maisonlux-backend/models"
)

// Context keys set by RequireAuth.
const (
	ctxUserID    = "userID"
	ctxUserRole  = "userRole"
	ctxSessionID = "sessionID"
)

// RequireAuth resolves the bearer token to a live session row. The token only
// names the session; revocation and expiry are decided by the database.
func (ctrl *Controller) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Login required"})
			return
		}
		token := strings.TrimPrefix(authHeader, "Bearer ")

		var jsonToken paseto.JSONToken
		var footer string
		if err := paseto.NewV2().Decrypt(token, ctrl.PasetoSecretKey, &jsonToken, &footer); err != nil || footer != sessionFooter {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid token"})
			return
		}

		sessionID, err := primitive.ObjectIDFromHex(jsonToken.Subject)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid token"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var session models.Session
		err = ctrl.DB.Collection("sessions").FindOne(ctx, bson.M{"_id": sessionID}).Decode(&session)
		if err != nil || time.Now().After(session.ExpiresAt) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Session expired"})
			return
		}

		c.Set(ctxUserID, session.UserID)
		c.Set(ctxUserRole, session.Role)
		c.Set(ctxSessionID, session.ID)
		c.Next()
	}
}

// RequireAdmin gates the admin panel routes. Must run after RequireAuth.
func (ctrl *Controller) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if role, _ := c.Get(ctxUserRole); role != models.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Admin access required"})
			return
		}
		c.Next()
	}
}
