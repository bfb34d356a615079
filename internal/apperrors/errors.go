package apperrors

import (
	"errors"
	"fmt"
)

// ErrProductNotFound est retourné quand aucun produit ne correspond à l'ID.
var ErrProductNotFound = errors.New("Produit introuvable")

// ValidationError signale une entrée invalide — c'est la faute du client (400).
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validation construit une ValidationError avec le message donné.
func Validation(message string) error {
	return &ValidationError{Message: message}
}

// IsValidation indique si err est une erreur de validation.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// StoreError enveloppe une erreur venant d'un store externe (ScyllaDB ou MinIO).
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// Store enveloppe err avec le nom de l'opération qui a échoué.
func Store(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}
