// File: controllers/order.controller.go
package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"maisonlux-backend/checkout"
	"maisonlux-backend/models"
	"maisonlux-backend/store"
)

// PlaceOrder handles checkout: the stored cart is handed to the checkout
// engine and every failure mode maps to its own status code.
func (ctrl *Controller) PlaceOrder(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	userID := c.MustGet(ctxUserID).(primitive.ObjectID)

	cursor, err := ctrl.DB.Collection("carts").Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	defer cursor.Close(ctx)

	var cartItems []models.CartItem
	if err = cursor.All(ctx, &cartItems); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	items := make([]checkout.Item, 0, len(cartItems))
	for _, ci := range cartItems {
		items = append(items, checkout.Item{
			ProductID: ci.ProductID.Hex(),
			Quantity:  ci.Quantity,
		})
	}

	order, err := ctrl.Checkout.PlaceOrder(ctx, userID, items)
	if err != nil {
		status, message := checkoutError(err)
		c.JSON(status, gin.H{"message": message})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order placed successfully",
		"code":    order.Code,
		"order":   order,
	})
}

// checkoutError translates engine errors into the response taxonomy:
// validation and inventory problems are the client's, persistence is ours.
func checkoutError(err error) (int, string) {
	var ise *store.InsufficientStockError
	switch {
	case errors.Is(err, checkout.ErrEmptyCart):
		return http.StatusBadRequest, "Cart is empty"
	case errors.Is(err, checkout.ErrInvalidQuantity):
		return http.StatusBadRequest, "Quantities must be greater than zero"
	case errors.Is(err, store.ErrProductNotFound):
		return http.StatusBadRequest, "Cart references a product that is no longer available"
	case errors.As(err, &ise):
		return http.StatusConflict, "Insufficient stock for product " + ise.ProductID
	default:
		return http.StatusInternalServerError, "Order could not be saved, please try again"
	}
}

// GetMyOrders handles listing the current user's orders, newest first.
func (ctrl *Controller) GetMyOrders(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userID := c.MustGet(ctxUserID).(primitive.ObjectID)

	opts := options.Find().SetSort(bson.M{"created_at": -1})
	cursor, err := ctrl.DB.Collection("orders").Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err = cursor.All(ctx, &orders); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// GetOrder handles fetching one order by its public code. Customers only see
// their own orders; admins see all.
func (ctrl *Controller) GetOrder(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	code := c.Param("code")

	var order models.Order
	err := ctrl.DB.Collection("orders").FindOne(ctx, bson.M{"code": code}).Decode(&order)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"message": "Order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	userID := c.MustGet(ctxUserID).(primitive.ObjectID)
	role := c.GetString(ctxUserRole)
	if role != models.RoleAdmin && order.UserID != userID {
		c.JSON(http.StatusNotFound, gin.H{"message": "Order not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": order})
}

// GetAllOrders handles the admin order list.
func (ctrl *Controller) GetAllOrders(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if status := c.Query("status"); status != "" {
		filter["status"] = status
	}

	opts := options.Find().SetSort(bson.M{"created_at": -1})
	cursor, err := ctrl.DB.Collection("orders").Find(ctx, filter, opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err = cursor.All(ctx, &orders); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// UpdateOrderStatus handles admin status transitions. Line items stay
// immutable; only the status and updated_at change.
func (ctrl *Controller) UpdateOrderStatus(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	code := c.Param("code")

	var req models.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	if !models.ValidOrderStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Unknown order status"})
		return
	}

	result, err := ctrl.DB.Collection("orders").UpdateOne(ctx,
		bson.M{"code": code},
		bson.M{"$set": bson.M{"status": req.Status, "updated_at": time.Now()}},
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "Order not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Order status updated"})
}
