package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/google/uuid"

	"inventory_back_end/internal/apperrors"
	"inventory_back_end/internal/models"
)

// ProductStore est la passerelle vers les tables products et product_images.
type ProductStore interface {
	InsertProduct(ctx context.Context, fields models.ProductFields) (models.ProductRow, error)
	SelectProductWithImages(ctx context.Context, id string) (models.ProductRow, []string, error)
	SelectAllProductsWithImages(ctx context.Context) ([]models.ProductWithImages, error)
	UpdateProduct(ctx context.Context, id string, patch models.ProductPatch) (models.ProductRow, error)
	DeleteProductRow(ctx context.Context, id string) error
	InsertImageRecord(ctx context.Context, productID, imageURL string) error
	SelectImageURLsForProduct(ctx context.Context, id string) ([]string, error)
	DeleteImageRecordsForProduct(ctx context.Context, id string) error
}

// BlobStore est la passerelle vers le stockage objet des images.
type BlobStore interface {
	Upload(ctx context.Context, key string, data io.Reader, size int64, contentType string) (string, error)
	PublicURL(storedPath string) string
	KeyForURL(publicURL string) string
	Remove(ctx context.Context, keys []string) error
}

// ProductService orchestre le cycle de vie des produits : validation,
// écritures multi-étapes (table products, table product_images, bucket) et
// ré-assemblage de la vue domaine en lecture. Les échecs sur la ligne
// produit sont fatals ; les échecs sur les images sont journalisés et
// ignorés — on préfère un produit avec des images manquantes à une
// création/suppression échouée.
type ProductService struct {
	store ProductStore
	blobs BlobStore
}

func NewProductService(store ProductStore, blobs BlobStore) *ProductService {
	return &ProductService{store: store, blobs: blobs}
}

// CreateInput porte les champs du formulaire de création. Quantity accepte
// n'importe quel type (chaîne vide, texte non numérique, nombre) et passe
// par SafeParseInt.
type CreateInput struct {
	Name        string
	Description string
	Price       float64
	Quantity    any
	Available   bool
}

// UpdateInput décrit une mise à jour partielle : les champs nil sont
// absents du payload et restent inchangés.
type UpdateInput struct {
	Name        *string
	Description *string
	Price       *float64
	Quantity    any
	Available   *bool
}

// Create valide les données, insère le produit, uploade les images dans le
// bucket et enregistre leurs URLs.
func (s *ProductService) Create(ctx context.Context, in CreateInput, images []models.ImageFile) (models.Product, error) {
	quantity := SafeParseInt(in.Quantity)

	// Validation d'entrée — aucun effet de bord avant ce point
	if err := validateName(in.Name); err != nil {
		return models.Product{}, err
	}
	if err := validatePrice(in.Price); err != nil {
		return models.Product{}, err
	}
	if err := validateQuantity(quantity); err != nil {
		return models.Product{}, err
	}

	// 1. Insérer le produit dans la table products
	row, err := s.store.InsertProduct(ctx, models.ProductFields{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Quantity:    quantity,
		Available:   in.Available,
	})
	if err != nil {
		return models.Product{}, apperrors.Store("création produit", err)
	}

	// 2. Uploader les images et enregistrer leurs URLs, une par une dans
	// l'ordre de soumission. Un échec individuel est journalisé et l'image
	// est omise — la création du produit continue.
	uploaded := []string{}
	for _, img := range images {
		safeName := sanitizeFilename(img.Filename)

		// Clé unique : [ID_produit]/[UUID]-[nom_sûr]
		key := fmt.Sprintf("%s/%s-%s", row.ID, uuid.NewString(), safeName)

		storedPath, err := s.blobs.Upload(ctx, key, bytes.NewReader(img.Data), int64(len(img.Data)), img.ContentType)
		if err != nil {
			log.Printf("⚠️ Erreur upload %s, fichier omis: %v", img.Filename, err)
			continue
		}

		imageURL := s.blobs.PublicURL(storedPath)
		uploaded = append(uploaded, imageURL)

		if err := s.store.InsertImageRecord(ctx, row.ID, imageURL); err != nil {
			log.Printf("⚠️ Erreur enregistrement URL image en DB: %v", err)
		}
	}

	// 3. Retourner le produit assemblé avec les images dans l'ordre d'upload
	return AssembleProduct(row, uploaded), nil
}

// GetAll retourne tous les produits avec leurs images, par ID croissant.
func (s *ProductService) GetAll(ctx context.Context) ([]models.Product, error) {
	rows, err := s.store.SelectAllProductsWithImages(ctx)
	if err != nil {
		return nil, apperrors.Store("lecture produits", err)
	}

	products := make([]models.Product, 0, len(rows))
	for _, r := range rows {
		products = append(products, AssembleProduct(r.Row, r.ImageURLs))
	}
	return products, nil
}

// GetByID retourne un produit avec toutes ses images.
func (s *ProductService) GetByID(ctx context.Context, id string) (models.Product, error) {
	row, urls, err := s.store.SelectProductWithImages(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrProductNotFound) {
			return models.Product{}, err
		}
		return models.Product{}, apperrors.Store("lecture produit", err)
	}
	return AssembleProduct(row, urls), nil
}

// Update applique une mise à jour partielle. Les champs présents sont
// validés comme à la création ; les champs absents restent intacts.
func (s *ProductService) Update(ctx context.Context, id string, in UpdateInput) (models.Product, error) {
	patch := models.ProductPatch{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Available:   in.Available,
	}

	if in.Name != nil {
		if err := validateName(*in.Name); err != nil {
			return models.Product{}, err
		}
	}
	if in.Price != nil {
		if err := validatePrice(*in.Price); err != nil {
			return models.Product{}, err
		}
	}
	if in.Quantity != nil {
		q := SafeParseInt(in.Quantity)
		if err := validateQuantity(q); err != nil {
			return models.Product{}, err
		}
		patch.Quantity = &q
	}

	row, err := s.store.UpdateProduct(ctx, id, patch)
	if err != nil {
		if errors.Is(err, apperrors.ErrProductNotFound) {
			return models.Product{}, err
		}
		return models.Product{}, apperrors.Store("mise à jour produit", err)
	}

	// Les URLs d'images ne sont pas rechargées après une mise à jour :
	// seuls les champs scalaires sont ré-assemblés.
	return AssembleProduct(row, nil), nil
}

// Delete supprime un produit, ses références d'images et les fichiers du
// bucket. Seul l'échec de suppression de la ligne produit est fatal.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	// 1. Récupérer les URLs des images pour le nettoyage physique
	urls, err := s.store.SelectImageURLsForProduct(ctx, id)
	if err != nil {
		log.Printf("⚠️ Erreur lecture URLs d'images du produit %s: %v", id, err)
	}

	// 2. Supprimer les références d'images — le produit principal prime,
	// on continue même en cas d'échec
	if err := s.store.DeleteImageRecordsForProduct(ctx, id); err != nil {
		log.Printf("⚠️ Erreur suppression références d'images en DB: %v", err)
	}

	// 3. Supprimer les fichiers du bucket
	if len(urls) > 0 {
		keys := make([]string, 0, len(urls))
		for _, u := range urls {
			keys = append(keys, s.blobs.KeyForURL(u))
		}
		if err := s.blobs.Remove(ctx, keys); err != nil {
			log.Printf("⚠️ Fichiers orphelins possibles — erreur suppression bucket: %v", err)
		}
	}

	// 4. Supprimer la ligne produit — cet échec-là est fatal
	if err := s.store.DeleteProductRow(ctx, id); err != nil {
		return apperrors.Store("suppression produit", err)
	}

	return nil
}
