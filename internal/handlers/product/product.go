package product

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"inventory_back_end/internal/apperrors"
	"inventory_back_end/internal/models"
	"inventory_back_end/internal/service"
)

// Nombre maximum d'images acceptées par produit à la création
const MaxImagesPerProduct = 5

// Handler expose le CRUD produit au-dessus du ProductService.
type Handler struct {
	svc *service.ProductService
}

func NewHandler(svc *service.ProductService) *Handler {
	return &Handler{svc: svc}
}

// respondError traduit la taxonomie d'erreurs du service en codes HTTP :
// validation → 400, produit introuvable → 404, le reste → 500.
func respondError(c *gin.Context, err error) {
	switch {
	case apperrors.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": apperrors.ErrProductNotFound.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func (h *Handler) GetAllProducts(c *gin.Context) {
	products, err := h.svc.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *Handler) CreateProduct(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Formulaire multipart invalide"})
		return
	}

	files := form.File["images"]
	if len(files) > MaxImagesPerProduct {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Maximum 5 images par produit"})
		return
	}

	// Prix absent → 0 ; prix présent mais non numérique → 400
	price := 0.0
	if raw := c.PostForm("price"); raw != "" {
		price, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Prix invalide"})
			return
		}
	}

	input := service.CreateInput{
		Name:        c.PostForm("name"),
		Description: c.PostForm("description"),
		Price:       price,
		Quantity:    c.PostForm("quantity"),
		Available:   c.PostForm("available") == "true",
	}

	images := make([]models.ImageFile, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Fichier illisible: " + fh.Filename})
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Fichier illisible: " + fh.Filename})
			return
		}
		images = append(images, models.ImageFile{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		})
	}

	created, err := h.svc.Create(c.Request.Context(), input, images)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) GetProduct(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	p, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) UpdateProduct(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	var input struct {
		Name        *string  `json:"name"`
		Description *string  `json:"description"`
		Price       *float64 `json:"price"`
		Quantity    any      `json:"quantity"`
		Available   *bool    `json:"available"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Format JSON invalide"})
		return
	}

	updated, err := h.svc.Update(c.Request.Context(), id, service.UpdateInput{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Quantity:    input.Quantity,
		Available:   input.Available,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) DeleteProduct(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
