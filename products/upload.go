package products

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"solemart/db"
	"solemart/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

var productUploadPath = "./static/productpic"

// UploadProductImage handles POST /api/products/:id/image (admin). Saves
// the original and a 300px-wide thumbnail.
func UploadProductImage(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	productID := ps.ByName("id")

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	file, handler, err := r.FormFile("image")
	if err != nil {
		http.Error(w, "Image file missing", http.StatusBadRequest)
		return
	}
	defer file.Close()

	ext := filepath.Ext(handler.Filename)
	if ext != ".jpg" && ext != ".jpeg" && ext != ".png" && ext != ".webp" {
		http.Error(w, "Unsupported file type", http.StatusBadRequest)
		return
	}

	id := utils.GenerateID(12)
	filename := fmt.Sprintf("%s%s", id, ext)
	path := filepath.Join(productUploadPath, filename)

	if err := os.MkdirAll(productUploadPath, 0755); err != nil {
		http.Error(w, "Unable to save file", http.StatusInternalServerError)
		return
	}
	dst, err := os.Create(path)
	if err != nil {
		http.Error(w, "Unable to save file", http.StatusInternalServerError)
		return
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		http.Error(w, "Error saving file", http.StatusInternalServerError)
		return
	}

	utils.CreateThumb(id, productUploadPath, ext, 300)

	imageURL := "/static/productpic/" + filename
	update := bson.M{"$set": bson.M{"image": imageURL, "updatedAt": time.Now()}}
	res, err := db.ProductCollection.UpdateOne(ctx, bson.M{"productid": productID}, update)
	if err != nil {
		log.Println("UploadProductImage update error:", err)
		http.Error(w, "Failed to update product image", http.StatusInternalServerError)
		return
	}
	if res.MatchedCount == 0 {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"image": imageURL})
}
