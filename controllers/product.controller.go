// File: controllers/product.controller.go
package controllers

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"maisonlux-backend/models"
)

// GetProducts handles catalogue browsing with optional filters.
func (ctrl *Controller) GetProducts(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	f := models.ProductFilter{
		Search:   c.Query("search"),
		Brand:    c.Query("brand"),
		Gender:   c.Query("gender"),
		Category: c.Query("category"),
	}
	f.MinPrice, _ = strconv.ParseFloat(c.Query("min_price"), 64)
	f.MaxPrice, _ = strconv.ParseFloat(c.Query("max_price"), 64)

	collection := ctrl.DB.Collection("products")
	cursor, err := collection.Find(ctx, catalogueFilter(f))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	defer cursor.Close(ctx)

	var productList []models.Product
	if err = cursor.All(ctx, &productList); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": productList})
}

// catalogueFilter builds the query for the public catalogue. Only active
// products are ever listed.
func catalogueFilter(f models.ProductFilter) bson.M {
	filter := bson.M{"active": true}

	if f.Search != "" {
		filter["$or"] = []bson.M{
			{"name": bson.M{"$regex": f.Search, "$options": "i"}},
			{"brand": bson.M{"$regex": f.Search, "$options": "i"}},
		}
	}
	if f.Brand != "" {
		filter["brand"] = f.Brand
	}
	if f.Gender != "" {
		filter["gender"] = f.Gender
	}
	if f.Category != "" {
		filter["categories"] = f.Category
	}

	price := bson.M{}
	if f.MinPrice > 0 {
		price["$gte"] = f.MinPrice
	}
	if f.MaxPrice > 0 {
		price["$lte"] = f.MaxPrice
	}
	if len(price) > 0 {
		filter["price"] = price
	}
	return filter
}

// CreateProduct handles new product creation by an admin.
func (ctrl *Controller) CreateProduct(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var product models.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	if product.Name == "" || product.Price <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Product name and a positive price are required"})
		return
	}
	if product.Stock < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Stock cannot be negative"})
		return
	}
	if product.Discount < 0 || product.Discount > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Discount must be between 0 and 100"})
		return
	}

	if product.ImageBase64 != "" && ctrl.Cld != nil {
		uploadResult, err := ctrl.Cld.Upload.Upload(
			context.Background(),
			product.ImageBase64,
			uploader.UploadParams{Folder: "maisonlux/products"},
		)
		if err != nil {
			log.Println("Cloudinary upload error:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to upload image"})
			return
		}
		product.ImageURL = uploadResult.SecureURL
		product.Image = uploadResult.PublicID
	}

	product.Description = models.NormalizeDescription(product.Description)
	product.Active = true
	product.CreatedAt = time.Now()
	product.UpdatedAt = time.Now()
	product.ImageBase64 = ""

	collection := ctrl.DB.Collection("products")
	result, err := collection.InsertOne(ctx, product)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	product.ID = result.InsertedID.(primitive.ObjectID)
	c.JSON(http.StatusCreated, gin.H{"product": product})
}

// GetProduct handles fetching one product by ID.
func (ctrl *Controller) GetProduct(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	id := c.Param("id")
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid product ID"})
		return
	}

	var product models.Product
	collection := ctrl.DB.Collection("products")
	err = collection.FindOne(ctx, bson.M{"_id": objectID, "active": true}).Decode(&product)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": product})
}

// productUpdateFields turns an edit request into the $set document. Only
// fields the admin actually sent are written: a whole-struct $set would
// zero the active flag on every edit and overwrite stock that checkout is
// concurrently decrementing.
func productUpdateFields(req *models.UpdateProductRequest) (bson.M, string) {
	fields := bson.M{}
	if req.Name != nil {
		if *req.Name == "" {
			return nil, "Product name cannot be empty"
		}
		fields["name"] = *req.Name
	}
	if req.Brand != nil {
		fields["brand"] = *req.Brand
	}
	if req.Gender != nil {
		fields["gender"] = *req.Gender
	}
	if req.Categories != nil {
		fields["categories"] = *req.Categories
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			return nil, "Price must be greater than zero"
		}
		fields["price"] = *req.Price
	}
	if req.Discount != nil {
		if *req.Discount < 0 || *req.Discount > 100 {
			return nil, "Discount must be between 0 and 100"
		}
		fields["discount"] = *req.Discount
	}
	if req.Stock != nil {
		if *req.Stock < 0 {
			return nil, "Stock cannot be negative"
		}
		fields["stock"] = *req.Stock
	}
	if req.Description != nil {
		fields["description"] = models.NormalizeDescription(*req.Description)
	}
	if req.Active != nil {
		fields["active"] = *req.Active
	}
	return fields, ""
}

// UpdateProduct handles editing a product. Stock changes here are explicit
// admin corrections; purchases only ever decrement through checkout.
func (ctrl *Controller) UpdateProduct(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	id := c.Param("id")
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid product ID"})
		return
	}

	var req models.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	fields, msg := productUpdateFields(&req)
	if msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": msg})
		return
	}

	if req.ImageBase64 != "" && ctrl.Cld != nil {
		uploadResult, err := ctrl.Cld.Upload.Upload(
			context.Background(),
			req.ImageBase64,
			uploader.UploadParams{Folder: "maisonlux/products"},
		)
		if err != nil {
			log.Println("Cloudinary upload error:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to upload image"})
			return
		}
		fields["image_url"] = uploadResult.SecureURL
		fields["image"] = uploadResult.PublicID
	}

	if len(fields) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No fields to update"})
		return
	}
	fields["updated_at"] = time.Now()

	collection := ctrl.DB.Collection("products")
	result, err := collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": fields})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product updated successfully"})
}

// DeleteProduct handles removing a product from the catalogue.
func (ctrl *Controller) DeleteProduct(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	id := c.Param("id")
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid product ID"})
		return
	}

	collection := ctrl.DB.Collection("products")
	result, err := collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	if result.DeletedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}
