package product_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventory_back_end/internal/apperrors"
	"inventory_back_end/internal/handlers/product"
	"inventory_back_end/internal/models"
	"inventory_back_end/internal/routes"
	"inventory_back_end/internal/service"
)

// --- Fakes minimaux des deux passerelles ---

type memStore struct {
	rows   map[string]models.ProductRow
	order  []string
	images map[string][]string
}

func newMemStore() *memStore {
	return &memStore{rows: map[string]models.ProductRow{}, images: map[string][]string{}}
}

func (m *memStore) InsertProduct(_ context.Context, fields models.ProductFields) (models.ProductRow, error) {
	row := models.ProductRow{
		ID:          uuid.NewString(),
		Name:        fields.Name,
		Description: fields.Description,
		Price:       fields.Price,
		Quantity:    fields.Quantity,
		Available:   fields.Available,
		CreatedAt:   time.Now().UTC(),
	}
	m.rows[row.ID] = row
	m.order = append(m.order, row.ID)
	return row, nil
}

func (m *memStore) SelectProductWithImages(_ context.Context, id string) (models.ProductRow, []string, error) {
	row, ok := m.rows[id]
	if !ok {
		return models.ProductRow{}, nil, apperrors.ErrProductNotFound
	}
	return row, m.images[id], nil
}

func (m *memStore) SelectAllProductsWithImages(_ context.Context) ([]models.ProductWithImages, error) {
	var result []models.ProductWithImages
	for _, id := range m.order {
		result = append(result, models.ProductWithImages{Row: m.rows[id], ImageURLs: m.images[id]})
	}
	return result, nil
}

func (m *memStore) UpdateProduct(_ context.Context, id string, patch models.ProductPatch) (models.ProductRow, error) {
	row, ok := m.rows[id]
	if !ok {
		return models.ProductRow{}, apperrors.ErrProductNotFound
	}
	if patch.Name != nil {
		row.Name = *patch.Name
	}
	if patch.Description != nil {
		row.Description = *patch.Description
	}
	if patch.Price != nil {
		row.Price = *patch.Price
	}
	if patch.Quantity != nil {
		row.Quantity = *patch.Quantity
	}
	if patch.Available != nil {
		row.Available = *patch.Available
	}
	m.rows[id] = row
	return row, nil
}

func (m *memStore) DeleteProductRow(_ context.Context, id string) error {
	delete(m.rows, id)
	for i, existing := range m.order {
		if existing == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *memStore) InsertImageRecord(_ context.Context, productID, imageURL string) error {
	m.images[productID] = append(m.images[productID], imageURL)
	return nil
}

func (m *memStore) SelectImageURLsForProduct(_ context.Context, id string) ([]string, error) {
	return m.images[id], nil
}

func (m *memStore) DeleteImageRecordsForProduct(_ context.Context, id string) error {
	delete(m.images, id)
	return nil
}

const memBlobPrefix = "http://minio.test/product-images/"

type memBlob struct {
	uploads map[string][]byte
	removed []string
}

func newMemBlob() *memBlob {
	return &memBlob{uploads: map[string][]byte{}}
}

func (m *memBlob) Upload(_ context.Context, key string, data io.Reader, _ int64, _ string) (string, error) {
	b, err := io.ReadAll(data)
	if err != nil {
		return "", err
	}
	m.uploads[key] = b
	return key, nil
}

func (m *memBlob) PublicURL(storedPath string) string {
	return memBlobPrefix + storedPath
}

func (m *memBlob) KeyForURL(publicURL string) string {
	return strings.TrimPrefix(publicURL, memBlobPrefix)
}

func (m *memBlob) Remove(_ context.Context, keys []string) error {
	m.removed = append(m.removed, keys...)
	return nil
}

func setupRouter(t *testing.T) (*gin.Engine, *memStore, *service.ProductService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st := newMemStore()
	svc := service.NewProductService(st, newMemBlob())

	r := gin.New()
	routes.RegisterRoutes(r, product.NewHandler(svc))
	return r, st, svc
}

// multipartBody construit un corps multipart/form-data avec les champs
// donnés et n fichiers sous le champ "images".
func multipartBody(t *testing.T, fields map[string]string, imageNames ...string) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, name := range imageNames {
		fw, err := w.CreateFormFile("images", name)
		require.NoError(t, err)
		_, err = fw.Write([]byte("fake-png-" + name))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func doRequest(r *gin.Engine, method, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	return m
}

var widgetFields = map[string]string{
	"name":      "Widget",
	"price":     "9.99",
	"quantity":  "3",
	"available": "true",
}

func TestCreateProductHTTP(t *testing.T) {
	t.Run("SansImage", func(t *testing.T) {
		r, _, _ := setupRouter(t)

		body, ct := multipartBody(t, widgetFields)
		rec := doRequest(r, http.MethodPost, "/products", body, ct)

		require.Equal(t, http.StatusCreated, rec.Code)
		m := decodeJSON(t, rec)
		assert.Equal(t, "Widget", m["name"])
		assert.Equal(t, 9.99, m["price"])
		assert.Equal(t, float64(3), m["quantity"])
		assert.Equal(t, true, m["available"])
		assert.NotEmpty(t, m["createdAt"])
		assert.Nil(t, m["first_image_url"])
		assert.Equal(t, []any{}, m["all_image_urls"])
	})

	t.Run("AvecImages", func(t *testing.T) {
		r, _, _ := setupRouter(t)

		body, ct := multipartBody(t, widgetFields, "a.png", "b.png")
		rec := doRequest(r, http.MethodPost, "/products", body, ct)

		require.Equal(t, http.StatusCreated, rec.Code)
		m := decodeJSON(t, rec)
		urls, ok := m["all_image_urls"].([]any)
		require.True(t, ok)
		require.Len(t, urls, 2)
		assert.Equal(t, urls[0], m["first_image_url"])
	})

	t.Run("TropDImages", func(t *testing.T) {
		r, st, _ := setupRouter(t)

		body, ct := multipartBody(t, widgetFields,
			"1.png", "2.png", "3.png", "4.png", "5.png", "6.png")
		rec := doRequest(r, http.MethodPost, "/products", body, ct)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.NotEmpty(t, decodeJSON(t, rec)["error"])
		// Rejeté avant toute écriture
		assert.Empty(t, st.rows)
	})

	t.Run("NomManquant", func(t *testing.T) {
		r, st, _ := setupRouter(t)

		fields := map[string]string{"price": "5", "quantity": "1"}
		body, ct := multipartBody(t, fields)
		rec := doRequest(r, http.MethodPost, "/products", body, ct)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.NotEmpty(t, decodeJSON(t, rec)["error"])
		assert.Empty(t, st.rows)
	})

	t.Run("PrixInvalide", func(t *testing.T) {
		r, st, _ := setupRouter(t)

		fields := map[string]string{"name": "Widget", "price": "abc"}
		body, ct := multipartBody(t, fields)
		rec := doRequest(r, http.MethodPost, "/products", body, ct)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Empty(t, st.rows)
	})

	t.Run("QuantiteIllisibleCoerceeAZero", func(t *testing.T) {
		r, _, _ := setupRouter(t)

		fields := map[string]string{"name": "Widget", "price": "5", "quantity": "beaucoup"}
		body, ct := multipartBody(t, fields)
		rec := doRequest(r, http.MethodPost, "/products", body, ct)

		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, float64(0), decodeJSON(t, rec)["quantity"])
	})
}

func TestGetProductsHTTP(t *testing.T) {
	t.Run("ListeOrdonnee", func(t *testing.T) {
		r, _, svc := setupRouter(t)
		ctx := context.Background()

		var ids []string
		for _, name := range []string{"Alpha", "Beta"} {
			p, err := svc.Create(ctx, service.CreateInput{Name: name, Price: 1}, nil)
			require.NoError(t, err)
			ids = append(ids, p.ID)
		}

		rec := doRequest(r, http.MethodGet, "/products", nil, "")
		require.Equal(t, http.StatusOK, rec.Code)

		var list []map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
		require.Len(t, list, 2)
		assert.Equal(t, ids[0], list[0]["id"])
		assert.Equal(t, ids[1], list[1]["id"])
	})

	t.Run("ParID", func(t *testing.T) {
		r, _, svc := setupRouter(t)

		p, err := svc.Create(context.Background(), service.CreateInput{Name: "Widget", Price: 2, Quantity: 4}, nil)
		require.NoError(t, err)

		rec := doRequest(r, http.MethodGet, "/products/"+p.ID, nil, "")
		require.Equal(t, http.StatusOK, rec.Code)
		m := decodeJSON(t, rec)
		assert.Equal(t, p.ID, m["id"])
		assert.Equal(t, float64(4), m["quantity"])
	})

	t.Run("Introuvable", func(t *testing.T) {
		r, _, _ := setupRouter(t)

		rec := doRequest(r, http.MethodGet, "/products/"+uuid.NewString(), nil, "")
		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Produit introuvable", decodeJSON(t, rec)["error"])
	})

	t.Run("IDInvalide", func(t *testing.T) {
		r, _, _ := setupRouter(t)

		rec := doRequest(r, http.MethodGet, "/products/pas-un-uuid", nil, "")
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestUpdateProductHTTP(t *testing.T) {
	t.Run("MiseAJourPartielle", func(t *testing.T) {
		r, _, svc := setupRouter(t)

		p, err := svc.Create(context.Background(), service.CreateInput{
			Name: "Widget", Price: 9.99, Quantity: 3, Available: true,
		}, nil)
		require.NoError(t, err)

		rec := doRequest(r, http.MethodPut, "/products/"+p.ID,
			strings.NewReader(`{"quantity": 5}`), "application/json")

		require.Equal(t, http.StatusOK, rec.Code)
		m := decodeJSON(t, rec)
		assert.Equal(t, float64(5), m["quantity"])
		assert.Equal(t, "Widget", m["name"])
		assert.Equal(t, 9.99, m["price"])
		assert.Equal(t, true, m["available"])
	})

	t.Run("Introuvable", func(t *testing.T) {
		r, _, _ := setupRouter(t)

		rec := doRequest(r, http.MethodPut, "/products/"+uuid.NewString(),
			strings.NewReader(`{"quantity": 5}`), "application/json")
		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("JSONInvalide", func(t *testing.T) {
		r, _, svc := setupRouter(t)

		p, err := svc.Create(context.Background(), service.CreateInput{Name: "Widget", Price: 1}, nil)
		require.NoError(t, err)

		rec := doRequest(r, http.MethodPut, "/products/"+p.ID,
			strings.NewReader(`{pas du json`), "application/json")
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("PrixNegatifRejete", func(t *testing.T) {
		r, st, svc := setupRouter(t)

		p, err := svc.Create(context.Background(), service.CreateInput{Name: "Widget", Price: 1}, nil)
		require.NoError(t, err)

		rec := doRequest(r, http.MethodPut, "/products/"+p.ID,
			strings.NewReader(`{"price": -2}`), "application/json")
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, 1.0, st.rows[p.ID].Price)
	})
}

func TestDeleteProductHTTP(t *testing.T) {
	t.Run("SuppressionPuisLectures", func(t *testing.T) {
		r, _, svc := setupRouter(t)

		p, err := svc.Create(context.Background(), service.CreateInput{Name: "Widget", Price: 1}, nil)
		require.NoError(t, err)

		rec := doRequest(r, http.MethodDelete, "/products/"+p.ID, nil, "")
		require.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.Bytes())

		rec = doRequest(r, http.MethodGet, "/products/"+p.ID, nil, "")
		require.Equal(t, http.StatusNotFound, rec.Code)

		// Une seconde suppression ne doit pas planter
		rec = doRequest(r, http.MethodDelete, "/products/"+p.ID, nil, "")
		require.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("IDInvalide", func(t *testing.T) {
		r, _, _ := setupRouter(t)

		rec := doRequest(r, http.MethodDelete, "/products/pas-un-uuid", nil, "")
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
