package controllers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/gin-gonic/gin"
)

var allowedImageExtensions = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"webp": true,
}

const localUploadDir = "static/uploads"

// sanitizeUploadName strips any path components from a client-supplied
// filename and checks the extension allowlist. Filenames are attacker
// input: "../../evil.png" must never leave the upload directory.
func sanitizeUploadName(filename string) (string, bool) {
	name := filepath.Base(filename)
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	if name == "" || name == "." || name == ".." {
		return "", false
	}
	parts := strings.Split(name, ".")
	if len(parts) < 2 {
		return "", false
	}
	return name, allowedImageExtensions[strings.ToLower(parts[len(parts)-1])]
}

// UploadImage handles admin image uploads. With Cloudinary configured the
// file goes there; otherwise it lands in the local static directory.
func (ctrl *Controller) UploadImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No file uploaded. Please select an image file."})
		return
	}

	filename, ok := sanitizeUploadName(file.Filename)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"message": "File format not supported. Allowed formats: jpg, jpeg, png, webp"})
		return
	}

	if ctrl.Cld != nil {
		src, err := file.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to read file"})
			return
		}
		defer src.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		uploadResult, err := ctrl.Cld.Upload.Upload(ctx, src, uploader.UploadParams{Folder: "maisonlux/uploads"})
		if err != nil {
			log.Println("Cloudinary upload error:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to upload image"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message":   "File uploaded successfully",
			"image_url": uploadResult.SecureURL,
			"image":     uploadResult.PublicID,
		})
		return
	}

	uniqueFilename := fmt.Sprintf("%d_%s", time.Now().Unix(), filename)
	dst := fmt.Sprintf("%s/%s", localUploadDir, uniqueFilename)
	if err := c.SaveUploadedFile(file, dst); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to save file"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":   "File uploaded successfully",
		"image_url": fmt.Sprintf("/static/uploads/%s", uniqueFilename),
		"filename":  uniqueFilename,
	})
}
