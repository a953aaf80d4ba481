package controllers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"maisonlux-backend/models"
)

// GetUsers handles the admin user list. Password hashes never leave the
// database.
func (ctrl *Controller) GetUsers(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collection := ctrl.DB.Collection("users")
	cursor, err := collection.Find(ctx, bson.M{}, options.Find().SetProjection(bson.M{"password": 0}))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	defer cursor.Close(ctx)

	var userList []models.User
	if err = cursor.All(ctx, &userList); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": userList})
}

// DeleteUser handles removing an account and its sessions.
func (ctrl *Controller) DeleteUser(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	id := c.Param("id")
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid user ID"})
		return
	}

	result, err := ctrl.DB.Collection("users").DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	if result.DeletedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}

	// Orphaned sessions would let a deleted user keep acting.
	if _, err := ctrl.DB.Collection("sessions").DeleteMany(ctx, bson.M{"user_id": objectID}); err != nil {
		log.Printf("users: failed to remove sessions for %s: %v", id, err)
	}
	if _, err := ctrl.DB.Collection("carts").DeleteMany(ctx, bson.M{"user_id": objectID}); err != nil {
		log.Printf("users: failed to remove cart for %s: %v", id, err)
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}
