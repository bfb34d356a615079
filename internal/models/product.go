package models

import "time"

// Product est la vue complète d'un produit telle qu'exposée par l'API.
// first_image_url est null s'il n'y a aucune image, all_image_urls est
// toujours un tableau (jamais null).
type Product struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Price         float64   `json:"price"`
	Quantity      int       `json:"quantity"`
	Available     bool      `json:"available"`
	CreatedAt     time.Time `json:"createdAt"`
	FirstImageURL *string   `json:"first_image_url"`
	AllImageURLs  []string  `json:"all_image_urls"`
}

// ProductFields sont les champs scalaires insérés à la création.
// L'ID et created_at sont attribués par le store.
type ProductFields struct {
	Name        string
	Description string
	Price       float64
	Quantity    int
	Available   bool
}

// ProductRow est une ligne de la table products.
type ProductRow struct {
	ID          string
	Name        string
	Description string
	Price       float64
	Quantity    int
	Available   bool
	CreatedAt   time.Time
}

// ProductPatch décrit une mise à jour partielle : seuls les champs non nil
// sont appliqués.
type ProductPatch struct {
	Name        *string
	Description *string
	Price       *float64
	Quantity    *int
	Available   *bool
}

// ProductWithImages associe une ligne produit à ses URLs d'images,
// dans l'ordre d'upload.
type ProductWithImages struct {
	Row       ProductRow
	ImageURLs []string
}

// ImageFile est un fichier image reçu du formulaire multipart.
type ImageFile struct {
	Filename    string
	ContentType string
	Data        []byte
}
