package orders

import (
	"regexp"
	"strings"

	pkgerrors "github.com/volcantech/elitevinewoodrs-sub000/pkg/errors"
)

var (
	// Accented Latin letters only, with spaces, apostrophes and hyphens
	// between parts ("Jean-Luc", "D'Angelo").
	nameRe     = regexp.MustCompile(`^[\p{Latin}]+(?:[ '\-][\p{Latin}]+)*$`)
	uniqueIDRe = regexp.MustCompile(`^[0-9]+$`)
	nonDigitRe = regexp.MustCompile(`[^0-9]`)
)

// ValidateCheckout applies the storefront field rules. Messages are shown
// verbatim in the storefront toast.
func ValidateCheckout(input CheckoutInput) error {
	if !nameRe.MatchString(strings.TrimSpace(input.FirstName)) {
		return pkgerrors.New(pkgerrors.CodeValidation, "🚫 Le prénom est invalide")
	}
	if !nameRe.MatchString(strings.TrimSpace(input.LastName)) {
		return pkgerrors.New(pkgerrors.CodeValidation, "🚫 Le nom est invalide")
	}
	if len(nonDigitRe.ReplaceAllString(input.Phone, "")) < 8 {
		return pkgerrors.New(pkgerrors.CodeValidation, "🚫 Le numéro de téléphone est invalide")
	}
	if !uniqueIDRe.MatchString(input.UniqueID) {
		return pkgerrors.New(pkgerrors.CodeValidation, "🚫 L'identifiant unique est invalide")
	}
	if len(input.Items) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "🚫 Votre panier est vide")
	}
	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "🚫 La quantité demandée est invalide")
		}
	}
	return nil
}
