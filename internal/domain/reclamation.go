package domain

import (
	"net/mail"
	"strings"
)

var ReclamationTypes = map[string]bool{
	"transaction": true,
	"card":        true,
	"account":     true,
	"fees":        true,
	"other":       true,
}

type ReclamationForm struct {
	Type          string
	Subject       string
	Description   string
	AccountNumber string
	Priority      string
}

func (f ReclamationForm) Validate() error {
	if !ReclamationTypes[strings.TrimSpace(f.Type)] {
		return invalid("type", "Veuillez choisir un type de réclamation")
	}
	if len([]rune(strings.TrimSpace(f.Subject))) < 5 {
		return invalid("subject", "L'objet doit contenir au moins 5 caractères")
	}
	if len([]rune(strings.TrimSpace(f.Description))) < 10 {
		return invalid("description", "La description doit contenir au moins 10 caractères")
	}
	return nil
}

type LoginForm struct {
	Email    string
	Password string
}

func (f LoginForm) Validate() error {
	if _, err := mail.ParseAddress(strings.TrimSpace(f.Email)); err != nil {
		return invalid("email", "Adresse email invalide")
	}
	if f.Password == "" {
		return invalid("password", "Le mot de passe est requis")
	}
	return nil
}

type SignUpForm struct {
	Email     string
	Password  string
	Confirm   string
	FirstName string
	LastName  string
	Phone     string
}

func (f SignUpForm) Validate() error {
	if strings.TrimSpace(f.FirstName) == "" {
		return invalid("firstName", "Le prénom est requis")
	}
	if strings.TrimSpace(f.LastName) == "" {
		return invalid("lastName", "Le nom est requis")
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(f.Email)); err != nil {
		return invalid("email", "Adresse email invalide")
	}
	if len(f.Password) < 8 {
		return invalid("password", "Le mot de passe doit contenir au moins 8 caractères")
	}
	if f.Confirm != "" && f.Confirm != f.Password {
		return invalid("confirmPassword", "Les mots de passe ne correspondent pas")
	}
	return nil
}
