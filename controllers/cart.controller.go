// File: controllers/cart.controller.go
package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"maisonlux-backend/models"
)

// GetCart handles fetching the current user's cart with product details and
// a running subtotal.
func (ctrl *Controller) GetCart(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userID := c.MustGet(ctxUserID).(primitive.ObjectID)

	cursor, err := ctrl.DB.Collection("carts").Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	defer cursor.Close(ctx)

	var items []models.CartItem
	if err = cursor.All(ctx, &items); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	lines := make([]models.CartLine, 0, len(items))
	subtotal := decimal.Zero

	for _, item := range items {
		var product models.Product
		err := ctrl.DB.Collection("products").FindOne(ctx, bson.M{"_id": item.ProductID}).Decode(&product)
		if err != nil {
			// Product removed since it was added; skip the stale row.
			continue
		}

		unit := decimal.NewFromFloat(product.Price)
		if product.Discount > 0 {
			unit = unit.Mul(decimal.NewFromFloat(100 - product.Discount)).Div(decimal.NewFromInt(100))
		}
		unit = unit.Round(2)
		lineTotal := unit.Mul(decimal.NewFromInt(int64(item.Quantity)))
		subtotal = subtotal.Add(lineTotal)

		unitPrice, _ := unit.Float64()
		lt, _ := lineTotal.Float64()
		lines = append(lines, models.CartLine{
			ProductID: item.ProductID,
			Name:      product.Name,
			Brand:     product.Brand,
			Quantity:  item.Quantity,
			UnitPrice: unitPrice,
			LineTotal: lt,
		})
	}

	st, _ := subtotal.Round(2).Float64()
	c.JSON(http.StatusOK, gin.H{"items": lines, "subtotal": st})
}

// AddToCart handles adding a product, incrementing the quantity when the
// product is already in the cart.
func (ctrl *Controller) AddToCart(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userID := c.MustGet(ctxUserID).(primitive.ObjectID)

	var req models.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	productID, err := primitive.ObjectIDFromHex(req.ProductID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid product ID"})
		return
	}

	var product models.Product
	err = ctrl.DB.Collection("products").FindOne(ctx, bson.M{"_id": productID, "active": true}).Decode(&product)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	filter := bson.M{"user_id": userID, "product_id": productID}
	update := bson.M{
		"$inc":         bson.M{"quantity": req.Quantity},
		"$setOnInsert": bson.M{"added_at": time.Now()},
	}
	_, err = ctrl.DB.Collection("carts").UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Added to cart"})
}

// UpdateCartItem handles setting the quantity of one cart line.
func (ctrl *Controller) UpdateCartItem(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userID := c.MustGet(ctxUserID).(primitive.ObjectID)

	productID, err := primitive.ObjectIDFromHex(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid product ID"})
		return
	}

	var req models.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	result, err := ctrl.DB.Collection("carts").UpdateOne(ctx,
		bson.M{"user_id": userID, "product_id": productID},
		bson.M{"$set": bson.M{"quantity": req.Quantity}},
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "Item not in cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Cart updated"})
}

// RemoveCartItem handles removing one product from the cart.
func (ctrl *Controller) RemoveCartItem(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userID := c.MustGet(ctxUserID).(primitive.ObjectID)

	productID, err := primitive.ObjectIDFromHex(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid product ID"})
		return
	}

	result, err := ctrl.DB.Collection("carts").DeleteOne(ctx,
		bson.M{"user_id": userID, "product_id": productID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	if result.DeletedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "Item not in cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Item removed"})
}
