package service

import (
	"strconv"
	"strings"

	"inventory_back_end/internal/apperrors"
)

// SafeParseInt convertit une valeur arbitraire (champ de formulaire ou JSON)
// en entier de façon sûre, avec 0 comme valeur de repli. Ne échoue jamais.
func SafeParseInt(value any) int {
	switch v := value.(type) {
	case nil:
		return 0
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0
		}
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return int(f)
		}
		return 0
	default:
		return 0
	}
}

func validateName(name string) error {
	if name == "" {
		return apperrors.Validation("Le nom du produit est obligatoire")
	}
	return nil
}

func validatePrice(price float64) error {
	if price < 0 {
		return apperrors.Validation("Le prix ne peut pas être négatif")
	}
	return nil
}

func validateQuantity(quantity int) error {
	if quantity < 0 {
		return apperrors.Validation("La quantité (stock) ne peut pas être négative")
	}
	return nil
}

// sanitizeFilename ne garde que les caractères alphanumériques, '.' et '-',
// remplace le reste par '_' et coupe à 30 caractères. C'est la seule défense
// contre l'injection de chemin dans le namespace du bucket.
func sanitizeFilename(name string) string {
	if name == "" {
		name = "image"
	}
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	s := b.String()
	if len(s) > 30 {
		s = s[:30]
	}
	return s
}
