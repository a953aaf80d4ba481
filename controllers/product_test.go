package controllers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maisonlux-backend/models"
)

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }
func boolPtr(b bool) *bool        { return &b }

func TestProductUpdateFieldsOnlyWritesSentFields(t *testing.T) {
	req := &models.UpdateProductRequest{Price: floatPtr(450)}

	fields, msg := productUpdateFields(req)
	require.Empty(t, msg)

	assert.Equal(t, 450.0, fields["price"])
	// An edit that never mentions active or stock must not touch them:
	// a whole-struct $set would delist the product and overwrite stock
	// that checkout just reserved.
	assert.NotContains(t, fields, "active")
	assert.NotContains(t, fields, "stock")
	assert.NotContains(t, fields, "name")
}

func TestProductUpdateFieldsExplicitFlags(t *testing.T) {
	req := &models.UpdateProductRequest{
		Stock:  intPtr(7),
		Active: boolPtr(false),
	}

	fields, msg := productUpdateFields(req)
	require.Empty(t, msg)
	assert.Equal(t, 7, fields["stock"])
	assert.Equal(t, false, fields["active"])
}

func TestProductUpdateFieldsNormalizesDescription(t *testing.T) {
	req := &models.UpdateProductRequest{Description: strPtr("Hand-finished\nin Florence")}

	fields, msg := productUpdateFields(req)
	require.Empty(t, msg)
	assert.Equal(t, "Hand-finished in Florence", fields["description"])
}

func TestProductUpdateFieldsValidation(t *testing.T) {
	tests := []struct {
		name string
		req  *models.UpdateProductRequest
		want string
	}{
		{"empty name", &models.UpdateProductRequest{Name: strPtr("")}, "Product name cannot be empty"},
		{"zero price", &models.UpdateProductRequest{Price: floatPtr(0)}, "Price must be greater than zero"},
		{"negative stock", &models.UpdateProductRequest{Stock: intPtr(-1)}, "Stock cannot be negative"},
		{"discount above 100", &models.UpdateProductRequest{Discount: floatPtr(150)}, "Discount must be between 0 and 100"},
		{"negative discount", &models.UpdateProductRequest{Discount: floatPtr(-5)}, "Discount must be between 0 and 100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields, msg := productUpdateFields(tt.req)
			assert.Nil(t, fields)
			assert.Equal(t, tt.want, msg)
		})
	}
}
