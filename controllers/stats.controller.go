package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"maisonlux-backend/models"
)

// HealthCheck is the liveness endpoint. It deliberately touches nothing: a
// fixed payload, so load balancers get an answer even while the DB is down.
func (ctrl *Controller) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "maisonlux backend is running",
	})
}

// GetStats handles the admin dashboard numbers.
func (ctrl *Controller) GetStats(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	productsCollection := ctrl.DB.Collection("products")
	ordersCollection := ctrl.DB.Collection("orders")

	totalProducts, _ := productsCollection.CountDocuments(ctx, bson.M{})
	totalUsers, _ := ctrl.DB.Collection("users").CountDocuments(ctx, bson.M{})
	totalOrders, _ := ordersCollection.CountDocuments(ctx, bson.M{})

	stats := models.Stats{
		TotalProducts: totalProducts,
		TotalUsers:    totalUsers,
		TotalOrders:   totalOrders,
	}

	// Revenue counts only orders that actually got paid.
	revenuePipeline := []bson.M{
		{"$match": bson.M{"status": bson.M{"$in": []models.OrderStatus{
			models.OrderStatusPaid, models.OrderStatusShipped, models.OrderStatusDelivered,
		}}}},
		{"$group": bson.M{"_id": nil, "total": bson.M{"$sum": "$total"}}},
	}
	if v, err := aggregateTotal(ctx, ordersCollection, revenuePipeline); err == nil {
		stats.Revenue = v
	}

	inventoryPipeline := []bson.M{
		{"$match": bson.M{"active": true}},
		{"$group": bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": bson.M{"$multiply": []string{"$price", "$stock"}}},
		}},
	}
	if v, err := aggregateTotal(ctx, productsCollection, inventoryPipeline); err == nil {
		stats.InventoryValue = v
	}

	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

// aggregateTotal runs a $group pipeline producing a single "total" field.
func aggregateTotal(ctx context.Context, coll *mongo.Collection, pipeline []bson.M) (float64, error) {
	cursor, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var results []bson.M
	if err := cursor.All(ctx, &results); err != nil || len(results) == 0 {
		return 0, err
	}

	switch v := results[0]["total"].(type) {
	case float64:
		return v, nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	default:
		return 0, nil
	}
}
