package store

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
)

// MinioBlobStore stocke les images produit dans un bucket MinIO et résout
// leurs URLs publiques sous la forme http://<endpoint>/<bucket>/<clé>.
type MinioBlobStore struct {
	client  *minio.Client
	bucket  string
	baseURL string
}

func NewMinioBlobStore(client *minio.Client, endpoint, bucket string, useSSL bool) *MinioBlobStore {
	scheme := "http"
	if useSSL {
		scheme = "https"
	}
	return &MinioBlobStore{
		client:  client,
		bucket:  bucket,
		baseURL: fmt.Sprintf("%s://%s/%s/", scheme, endpoint, bucket),
	}
}

// Upload envoie le contenu vers le bucket sous la clé donnée. Les clés
// contiennent un UUID fraîchement généré, donc aucun objet existant n'est
// jamais écrasé.
func (m *MinioBlobStore) Upload(ctx context.Context, key string, data io.Reader, size int64, contentType string) (string, error) {
	info, err := m.client.PutObject(ctx, m.bucket, key, data, size,
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", err
	}
	return info.Key, nil
}

// PublicURL résout l'URL publique d'un objet stocké.
func (m *MinioBlobStore) PublicURL(storedPath string) string {
	return m.baseURL + storedPath
}

// KeyForURL retrouve la clé objet à partir d'une URL publique en retirant
// le préfixe connu du bucket.
func (m *MinioBlobStore) KeyForURL(publicURL string) string {
	return strings.TrimPrefix(publicURL, m.baseURL)
}

// Remove supprime les objets donnés ; tente toutes les clés et retourne la
// première erreur rencontrée.
func (m *MinioBlobStore) Remove(ctx context.Context, keys []string) error {
	var firstErr error
	for _, key := range keys {
		if err := m.client.RemoveObject(ctx, m.bucket, key, minio.RemoveObjectOptions{}); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
