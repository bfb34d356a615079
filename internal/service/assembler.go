package service

import "inventory_back_end/internal/models"

// AssembleProduct fusionne une ligne produit et ses URLs d'images (dans
// l'ordre d'upload) en un objet Product complet. Utilisé à l'identique par
// la création et les lectures pour que la forme d'un produit soit uniforme
// quel que soit le point d'entrée.
func AssembleProduct(row models.ProductRow, imageURLs []string) models.Product {
	urls := make([]string, len(imageURLs))
	copy(urls, imageURLs)

	p := models.Product{
		ID:           row.ID,
		Name:         row.Name,
		Description:  row.Description,
		Price:        row.Price,
		Quantity:     row.Quantity,
		Available:    row.Available,
		CreatedAt:    row.CreatedAt,
		AllImageURLs: urls,
	}
	if len(urls) > 0 {
		p.FirstImageURL = &urls[0]
	}
	return p
}
