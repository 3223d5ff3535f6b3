package handlers

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/Rabindra900/mission-shakti-cafe/internal/models"
	"github.com/Rabindra900/mission-shakti-cafe/internal/store"
	"github.com/google/uuid"
	"github.com/gorilla/csrf"
	"github.com/nfnt/resize"
)

// Accepted spellings for the best-seller / new checkbox fields. Anything else
// (including absence) means false.
var trueTokens = map[string]bool{"1": true, "true": true, "on": true, "yes": true}

func parseFlag(value string) bool {
	return trueTokens[strings.ToLower(value)]
}

func (h *AdminHandler) ListDishes(w http.ResponseWriter, r *http.Request) {
	dishes, err := h.Store.GetAllDishes()
	if err != nil {
		http.Error(w, "Error fetching dishes", http.StatusInternalServerError)
		return
	}

	tmpl := h.Templates.Get("admin_items.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}
	session := getSession(h.SessionStore, r)
	data := map[string]interface{}{
		"Dishes":    dishes,
		"Flashes":   GetFlash(session),
		"CsrfField": csrf.TemplateField(r),
	}
	session.Save(r, w)
	tmpl.Execute(w, data)
}

func (h *AdminHandler) CreateDish(w http.ResponseWriter, r *http.Request) {
	session := getSession(h.SessionStore, r)
	defer session.Save(r, w)

	// The image is optional, so a plain urlencoded post is fine too.
	if err := r.ParseMultipartForm(10 << 20); err != nil && err != http.ErrNotMultipart { // 10MB
		session.AddFlash(FlashMessage{Type: "error", Message: "File too large. Max 10MB."})
		http.Redirect(w, r, "/admin/items", http.StatusSeeOther)
		return
	}

	name := r.FormValue("name")
	priceStr := r.FormValue("price")
	category := r.FormValue("category")

	errs := make(map[string]string)
	if name == "" {
		errs["name"] = "Name is required."
	}
	price, err := strconv.Atoi(priceStr)
	if err != nil {
		errs["price"] = "Invalid price."
	} else if price < 0 {
		errs["price"] = "Price must not be negative."
	}
	if category == "" {
		errs["category"] = "Category is required."
	}
	mrp := 0
	if mrpStr := r.FormValue("mrp"); mrpStr != "" {
		mrp, err = strconv.Atoi(mrpStr)
		if err != nil {
			errs["mrp"] = "Invalid MRP."
		}
	}

	if len(errs) > 0 {
		for _, msg := range errs {
			session.AddFlash(FlashMessage{Type: "error", Message: msg})
		}
		http.Redirect(w, r, "/admin/items", http.StatusSeeOther)
		return
	}

	filename := ""
	if file, header, err := r.FormFile("image"); err == nil {
		defer file.Close()
		filename, err = h.saveImage(file, header.Filename)
		if err != nil {
			slog.Error("Failed to store dish image", "error", err)
			session.AddFlash(FlashMessage{Type: "error", Message: "Error saving image file."})
			http.Redirect(w, r, "/admin/items", http.StatusSeeOther)
			return
		}
	}

	dish := &models.Dish{
		Name:          name,
		Price:         price,
		MRP:           mrp,
		Category:      category,
		VegType:       r.FormValue("veg_type"),
		IsBestSeller:  parseFlag(r.FormValue("best_seller")),
		IsNew:         parseFlag(r.FormValue("is_new")),
		ImageFilename: filename,
	}

	if err := h.Store.CreateDish(dish); err != nil {
		session.AddFlash(FlashMessage{Type: "error", Message: "Error saving dish to database."})
		http.Redirect(w, r, "/admin/items", http.StatusSeeOther)
		return
	}

	session.AddFlash(FlashMessage{Type: "success", Message: "Dish added successfully!"})
	http.Redirect(w, r, "/admin/items", http.StatusSeeOther)
}

func (h *AdminHandler) DeleteDish(w http.ResponseWriter, r *http.Request) {
	session := getSession(h.SessionStore, r)
	defer session.Save(r, w)

	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		http.Error(w, "Invalid dish ID", http.StatusBadRequest)
		return
	}

	if err := h.Store.DeleteDish(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		http.Error(w, "Error deleting dish", http.StatusInternalServerError)
		return
	}

	session.AddFlash(FlashMessage{Type: "success", Message: "Dish deleted successfully!"})
	http.Redirect(w, r, "/admin/items", http.StatusSeeOther)
}

// saveImage decodes the upload, shrinks it to at most 800px wide and writes
// it as jpeg under the uploads directory. The stored name is the sanitized
// original filename; re-uploading the same name overwrites the old file.
func (h *AdminHandler) saveImage(file multipart.File, originalName string) (string, error) {
	var img image.Image
	var err error
	switch ext := strings.ToLower(filepath.Ext(originalName)); ext {
	case ".png":
		img, err = png.Decode(file)
	case ".jpg", ".jpeg":
		img, err = jpeg.Decode(file)
	default:
		return "", fmt.Errorf("unsupported image format %q", ext)
	}
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}

	resized := resize.Resize(800, 0, img, resize.Lanczos3)

	filename := sanitizeFilename(originalName)
	if filename == "" {
		filename = uuid.New().String()
	}
	filename += ".jpg"

	out, err := os.Create(filepath.Join(h.UploadDir, filename))
	if err != nil {
		return "", err
	}
	defer out.Close()

	if err := jpeg.Encode(out, resized, &jpeg.Options{Quality: 80}); err != nil {
		return "", err
	}
	return filename, nil
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]+`)

// sanitizeFilename strips the extension and any path or shell-unfriendly
// characters from an uploaded filename.
func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = unsafeFilenameChars.ReplaceAllString(base, "_")
	return strings.Trim(base, "._")
}
