package store

import (
	"bytes"
	"context"
	"sort"
	"strings"
	"time"

	"github.com/gocql/gocql"

	"inventory_back_end/internal/apperrors"
	"inventory_back_end/internal/models"
)

// ScyllaProductStore implémente la passerelle produits au-dessus des tables
// products et product_images (voir scripts/scylladb_init.cql).
type ScyllaProductStore struct {
	session *gocql.Session
}

func NewScyllaProductStore(session *gocql.Session) *ScyllaProductStore {
	return &ScyllaProductStore{session: session}
}

// InsertProduct insère une nouvelle ligne produit. L'ID (timeuuid) et
// created_at sont attribués ici — les timeuuid sont croissants dans le
// temps, donc "ID croissant" équivaut à "ordre de création".
func (s *ScyllaProductStore) InsertProduct(ctx context.Context, fields models.ProductFields) (models.ProductRow, error) {
	id := gocql.TimeUUID()
	now := time.Now().UTC().Truncate(time.Millisecond)

	if err := s.session.Query(
		`INSERT INTO products (product_id, name, description, price, quantity, available, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, fields.Name, fields.Description, fields.Price, fields.Quantity, fields.Available, now,
	).WithContext(ctx).Exec(); err != nil {
		return models.ProductRow{}, err
	}

	return models.ProductRow{
		ID:          id.String(),
		Name:        fields.Name,
		Description: fields.Description,
		Price:       fields.Price,
		Quantity:    fields.Quantity,
		Available:   fields.Available,
		CreatedAt:   now,
	}, nil
}

func (s *ScyllaProductStore) selectRow(ctx context.Context, pid gocql.UUID) (models.ProductRow, error) {
	var r models.ProductRow
	var id gocql.UUID

	err := s.session.Query(
		`SELECT product_id, name, description, price, quantity, available, created_at FROM products WHERE product_id = ?`,
		pid,
	).WithContext(ctx).Scan(&id, &r.Name, &r.Description, &r.Price, &r.Quantity, &r.Available, &r.CreatedAt)
	if err == gocql.ErrNotFound {
		return models.ProductRow{}, apperrors.ErrProductNotFound
	}
	if err != nil {
		return models.ProductRow{}, err
	}

	r.ID = id.String()
	return r, nil
}

func (s *ScyllaProductStore) imageURLs(ctx context.Context, pid gocql.UUID) ([]string, error) {
	// L'ordre de clustering sur image_id (timeuuid) restitue l'ordre d'upload
	iter := s.session.Query(
		`SELECT image_url FROM product_images WHERE product_id = ?`, pid,
	).WithContext(ctx).Iter()

	var urls []string
	var url string
	for iter.Scan(&url) {
		urls = append(urls, url)
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return urls, nil
}

// SelectProductWithImages retourne une ligne produit et ses URLs d'images.
func (s *ScyllaProductStore) SelectProductWithImages(ctx context.Context, id string) (models.ProductRow, []string, error) {
	pid, err := gocql.ParseUUID(id)
	if err != nil {
		return models.ProductRow{}, nil, apperrors.ErrProductNotFound
	}

	row, err := s.selectRow(ctx, pid)
	if err != nil {
		return models.ProductRow{}, nil, err
	}

	urls, err := s.imageURLs(ctx, pid)
	if err != nil {
		return models.ProductRow{}, nil, err
	}
	return row, urls, nil
}

// SelectAllProductsWithImages retourne tous les produits avec leurs images,
// triés par ID croissant. ScyllaDB ne fait ni jointure ni tri global entre
// partitions : on joint et on trie en mémoire.
func (s *ScyllaProductStore) SelectAllProductsWithImages(ctx context.Context) ([]models.ProductWithImages, error) {
	type entry struct {
		id  gocql.UUID
		row models.ProductRow
	}

	iter := s.session.Query(
		`SELECT product_id, name, description, price, quantity, available, created_at FROM products`,
	).WithContext(ctx).Iter()

	var entries []entry
	var id gocql.UUID
	var r models.ProductRow

	for iter.Scan(&id, &r.Name, &r.Description, &r.Price, &r.Quantity, &r.Available, &r.CreatedAt) {
		r.ID = id.String()
		entries = append(entries, entry{id: id, row: r})
		r = models.ProductRow{} // Reset pour la prochaine itération
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}

	// Associe chaque produit à ses URLs (scan complet de product_images ;
	// l'ordre de clustering par partition est préservé)
	imagesByProduct := make(map[string][]string)
	imgIter := s.session.Query(
		`SELECT product_id, image_url FROM product_images`,
	).WithContext(ctx).Iter()

	var imgPid gocql.UUID
	var imgURL string
	for imgIter.Scan(&imgPid, &imgURL) {
		key := imgPid.String()
		imagesByProduct[key] = append(imagesByProduct[key], imgURL)
	}
	if err := imgIter.Close(); err != nil {
		return nil, err
	}

	sort.Slice(entries, func(i, j int) bool {
		ti, tj := entries[i].id.Time(), entries[j].id.Time()
		if !ti.Equal(tj) {
			return ti.Before(tj)
		}
		return bytes.Compare(entries[i].id.Bytes(), entries[j].id.Bytes()) < 0
	})

	result := make([]models.ProductWithImages, 0, len(entries))
	for _, e := range entries {
		result = append(result, models.ProductWithImages{
			Row:       e.row,
			ImageURLs: imagesByProduct[e.row.ID],
		})
	}
	return result, nil
}

// UpdateProduct applique les champs présents du patch et retourne la ligne
// résultante. Un UPDATE ScyllaDB étant un upsert, l'existence est vérifiée
// d'abord pour distinguer "introuvable" d'une mise à jour.
func (s *ScyllaProductStore) UpdateProduct(ctx context.Context, id string, patch models.ProductPatch) (models.ProductRow, error) {
	pid, err := gocql.ParseUUID(id)
	if err != nil {
		return models.ProductRow{}, apperrors.ErrProductNotFound
	}

	current, err := s.selectRow(ctx, pid)
	if err != nil {
		return models.ProductRow{}, err
	}

	updates := []string{}
	values := []interface{}{}

	if patch.Name != nil {
		updates = append(updates, "name = ?")
		values = append(values, *patch.Name)
		current.Name = *patch.Name
	}
	if patch.Description != nil {
		updates = append(updates, "description = ?")
		values = append(values, *patch.Description)
		current.Description = *patch.Description
	}
	if patch.Price != nil {
		updates = append(updates, "price = ?")
		values = append(values, *patch.Price)
		current.Price = *patch.Price
	}
	if patch.Quantity != nil {
		updates = append(updates, "quantity = ?")
		values = append(values, *patch.Quantity)
		current.Quantity = *patch.Quantity
	}
	if patch.Available != nil {
		updates = append(updates, "available = ?")
		values = append(values, *patch.Available)
		current.Available = *patch.Available
	}

	if len(updates) == 0 {
		return current, nil
	}

	values = append(values, pid)
	query := "UPDATE products SET " + strings.Join(updates, ", ") + " WHERE product_id = ?"

	if err := s.session.Query(query, values...).WithContext(ctx).Exec(); err != nil {
		return models.ProductRow{}, err
	}
	return current, nil
}

// DeleteProductRow supprime la ligne produit (idempotent côté ScyllaDB).
func (s *ScyllaProductStore) DeleteProductRow(ctx context.Context, id string) error {
	pid, err := gocql.ParseUUID(id)
	if err != nil {
		return apperrors.ErrProductNotFound
	}
	return s.session.Query(
		`DELETE FROM products WHERE product_id = ?`, pid,
	).WithContext(ctx).Exec()
}

// InsertImageRecord enregistre l'URL publique d'une image uploadée.
func (s *ScyllaProductStore) InsertImageRecord(ctx context.Context, productID, imageURL string) error {
	pid, err := gocql.ParseUUID(productID)
	if err != nil {
		return apperrors.ErrProductNotFound
	}
	return s.session.Query(
		`INSERT INTO product_images (product_id, image_id, image_url) VALUES (?, ?, ?)`,
		pid, gocql.TimeUUID(), imageURL,
	).WithContext(ctx).Exec()
}

// SelectImageURLsForProduct retourne les URLs d'images dans l'ordre d'upload.
func (s *ScyllaProductStore) SelectImageURLsForProduct(ctx context.Context, id string) ([]string, error) {
	pid, err := gocql.ParseUUID(id)
	if err != nil {
		return nil, apperrors.ErrProductNotFound
	}
	return s.imageURLs(ctx, pid)
}

// DeleteImageRecordsForProduct supprime toutes les références d'images du produit.
func (s *ScyllaProductStore) DeleteImageRecordsForProduct(ctx context.Context, id string) error {
	pid, err := gocql.ParseUUID(id)
	if err != nil {
		return apperrors.ErrProductNotFound
	}
	return s.session.Query(
		`DELETE FROM product_images WHERE product_id = ?`, pid,
	).WithContext(ctx).Exec()
}
