package domain

import (
	"errors"
	"fmt"
)

// Every message below is shown to the customer as-is.

// Bills
var (
	ErrProviderNotFound    = errors.New("Fournisseur non reconnu")
	ErrProviderUnavailable = errors.New("Ce service est temporairement indisponible")
	ErrMerchantUnknown     = errors.New("Marchand non reconnu")
	ErrInvalidBillNumber   = errors.New("Format de numéro invalide")
)

// Accounts and limits
var (
	ErrAccountNotFound      = errors.New("Compte source introuvable")
	ErrInsufficientFunds    = errors.New("Solde insuffisant")
	ErrDailyLimitExceeded   = errors.New("Limite journalière dépassée")
	ErrMonthlyLimitExceeded = errors.New("Limite mensuelle dépassée")
)

// OTP
var (
	ErrInvalidOTP     = errors.New("Code OTP invalide")
	ErrOTPRateLimited = errors.New("Trop de demandes de code. Veuillez patienter avant de réessayer.")
	ErrOTPUnsupported = errors.New("L'envoi de code n'est pas disponible")
)

// Investments and notifications
var (
	ErrProductNotFound      = errors.New("Produit d'investissement inconnu")
	ErrInvalidDuration      = errors.New("Durée non disponible pour ce produit")
	ErrBelowMinimum         = errors.New("Montant inférieur au minimum requis")
	ErrNotificationNotFound = errors.New("Notification introuvable")
	ErrReclamationNotFound  = errors.New("Réclamation introuvable")
)

// Technical
var (
	ErrSimulatedNetwork = errors.New("Erreur de connexion. Veuillez réessayer.")
	ErrDataUnavailable  = errors.New("Impossible de charger les données. Veuillez réessayer.")
	ErrUnauthorized     = errors.New("Session expirée. Veuillez vous reconnecter.")
	ErrBadCredentials   = errors.New("Email ou mot de passe incorrect")
	ErrUpstream         = errors.New("Le service est momentanément indisponible. Veuillez réessayer plus tard.")
)

const TechnicalMessage = "Une erreur technique est survenue. Veuillez réessayer."

var userFacing = []error{
	ErrProviderNotFound, ErrProviderUnavailable, ErrMerchantUnknown, ErrInvalidBillNumber,
	ErrAccountNotFound, ErrInsufficientFunds, ErrDailyLimitExceeded, ErrMonthlyLimitExceeded,
	ErrInvalidOTP, ErrOTPRateLimited, ErrOTPUnsupported,
	ErrProductNotFound, ErrInvalidDuration, ErrBelowMinimum, ErrNotificationNotFound, ErrReclamationNotFound,
	ErrSimulatedNetwork, ErrDataUnavailable, ErrUnauthorized, ErrBadCredentials, ErrUpstream,
}

// ValidationError is a request that failed its schema check.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

// Problem is a business-rule failure with a tailored message. Kind is one of
// the sentinels above so callers can still use errors.Is.
type Problem struct {
	Kind    error
	Message string
}

func (p *Problem) Error() string {
	return p.Message
}

func (p *Problem) Unwrap() error {
	return p.Kind
}

func NewProblem(kind error, format string, args ...interface{}) error {
	return &Problem{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// UserMessage picks the text the UI should display for err.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Message
	}

	var p *Problem
	if errors.As(err, &p) {
		return p.Message
	}

	for _, known := range userFacing {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return TechnicalMessage
}

// IsBusiness reports whether err is a validation or business-rule rejection,
// as opposed to a technical failure.
func IsBusiness(err error) bool {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return true
	}
	for _, known := range []error{
		ErrProviderNotFound, ErrProviderUnavailable, ErrMerchantUnknown, ErrInvalidBillNumber,
		ErrAccountNotFound, ErrInsufficientFunds, ErrDailyLimitExceeded, ErrMonthlyLimitExceeded,
		ErrInvalidOTP, ErrOTPRateLimited, ErrOTPUnsupported, ErrProductNotFound, ErrInvalidDuration,
		ErrBelowMinimum, ErrBadCredentials,
	} {
		if errors.Is(err, known) {
			return true
		}
	}
	return false
}
