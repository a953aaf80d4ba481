package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/o1egl/paseto"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"maisonlux-backend/models"
)

const (
	sessionTTL    = 24 * time.Hour
	sessionFooter = "maisonlux-session"
)

// Register handles customer registration.
func (ctrl *Controller) Register(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to hash password"})
		return
	}

	user := models.User{
		Name:      req.Name,
		Email:     req.Email,
		Password:  string(hashedPassword),
		Role:      models.RoleCustomer,
		CreatedAt: time.Now(),
	}

	collection := ctrl.DB.Collection("users")
	result, err := collection.InsertOne(ctx, user)
	if err != nil {
		status, message := registerInsertStatus(err)
		c.JSON(status, gin.H{"message": message})
		return
	}

	user.ID = result.InsertedID.(primitive.ObjectID)
	user.Password = ""
	c.JSON(http.StatusCreated, gin.H{"message": "Registration successful", "user": user})
}

// registerInsertStatus maps a user-insert failure to a response. Only the
// unique index on email means "taken"; everything else is an infrastructure
// problem and must not masquerade as a conflict.
func registerInsertStatus(err error) (int, string) {
	if mongo.IsDuplicateKeyError(err) {
		return http.StatusConflict, "Email already registered"
	}
	return http.StatusInternalServerError, "Failed to create account"
}

// Login verifies credentials, stores a session row and returns a paseto
// token that references it.
func (ctrl *Controller) Login(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	var user models.User
	err := ctrl.DB.Collection("users").FindOne(ctx, bson.M{"email": req.Email}).Decode(&user)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
		return
	}

	now := time.Now()
	session := models.Session{
		UserID:    user.ID,
		Role:      user.Role,
		Email:     user.Email,
		CreatedAt: now,
		ExpiresAt: now.Add(sessionTTL),
	}
	result, err := ctrl.DB.Collection("sessions").InsertOne(ctx, session)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create session"})
		return
	}
	session.ID = result.InsertedID.(primitive.ObjectID)

	jsonToken := paseto.JSONToken{
		Subject:    session.ID.Hex(),
		IssuedAt:   now,
		Expiration: session.ExpiresAt,
	}
	token, err := paseto.NewV2().Encrypt(ctrl.PasetoSecretKey, jsonToken, sessionFooter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to generate token"})
		return
	}

	user.Password = ""
	c.JSON(http.StatusOK, gin.H{"message": "Login successful", "token": token, "user": user})
}

// Logout deletes the session row, which invalidates the token immediately.
func (ctrl *Controller) Logout(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	sessionID := c.MustGet(ctxSessionID).(primitive.ObjectID)
	_, err := ctrl.DB.Collection("sessions").DeleteOne(ctx, bson.M{"_id": sessionID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to end session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// Me returns the account behind the current session.
func (ctrl *Controller) Me(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userID := c.MustGet(ctxUserID).(primitive.ObjectID)

	var user models.User
	err := ctrl.DB.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}

	user.Password = ""
	c.JSON(http.StatusOK, gin.H{"user": user})
}
