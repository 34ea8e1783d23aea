package catalog

import (
	"regexp"
	"time"

	"github.com/shopspring/decimal"

	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/internal/domain"
)

func gnf(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func seed(s *Static) {
	providers := []domain.Provider{
		{ID: "edg", Name: "Électricité de Guinée", Type: domain.ProviderUtility, Category: "electricity", Status: domain.StatusAvailable, ProcessingTime: 2 * time.Second, Fee: gnf(1000)},
		{ID: "seg", Name: "Société des Eaux de Guinée", Type: domain.ProviderUtility, Category: "water", Status: domain.StatusAvailable, ProcessingTime: 2 * time.Second, Fee: gnf(1000)},
		{ID: "orange", Name: "Orange Guinée", Type: domain.ProviderUtility, Category: "telecom", Status: domain.StatusAvailable, ProcessingTime: time.Second, Fee: gnf(500)},
		{ID: "mtn", Name: "MTN Guinée", Type: domain.ProviderUtility, Category: "telecom", Status: domain.StatusMaintenance, ProcessingTime: time.Second, Fee: gnf(500)},
		{ID: "guilab", Name: "GUILAB", Type: domain.ProviderUtility, Category: "internet", Status: domain.StatusAvailable, ProcessingTime: 3 * time.Second, Fee: gnf(2000)},
		{ID: "canal", Name: "Canal+ Guinée", Type: domain.ProviderUtility, Category: "television", Status: domain.StatusUnavailable, ProcessingTime: 2 * time.Second, Fee: gnf(1500)},
		{ID: "espace", Name: "Espace Kaloum", Type: domain.ProviderMerchant, Category: "shopping", Status: domain.StatusAvailable, ProcessingTime: 1500 * time.Millisecond, Fee: gnf(500)},
		{ID: "prima", Name: "Prima Center", Type: domain.ProviderMerchant, Category: "supermarket", Status: domain.StatusAvailable, ProcessingTime: 1500 * time.Millisecond, Fee: gnf(500)},
		{ID: "pharmacie", Name: "Pharmacie Centrale", Type: domain.ProviderMerchant, Category: "health", Status: domain.StatusMaintenance, ProcessingTime: time.Second, Fee: gnf(0)},
	}
	for _, p := range providers {
		s.order = append(s.order, p.ID)
		s.providers[p.ID] = p
	}

	meterMsg := "Le numéro de compteur doit contenir 8 chiffres"
	phoneMsg := "Le numéro doit être au format 6XXXXXXXX"
	s.rules = map[string]BillRule{
		"edg": {Pattern: meterNumber, Message: meterMsg, Customer: "DIALLO Mamadou", Address: "Quartier Almamya, Kaloum, Conakry",
			MinAmount: 50000, MaxAmount: 500000, DueIn: 15 * 24 * time.Hour},
		"seg": {Pattern: meterNumber, Message: meterMsg, Customer: "CAMARA Fatoumata", Address: "Quartier Madina, Matam, Conakry",
			MinAmount: 25000, MaxAmount: 150000, DueIn: 20 * 24 * time.Hour},
		"orange": {Pattern: phoneNumber, Message: phoneMsg, Customer: "BAH Ibrahima", Address: "Ratoma, Conakry",
			MinAmount: 10000, MaxAmount: 100000, DueIn: 10 * 24 * time.Hour},
		"mtn": {Pattern: phoneNumber, Message: phoneMsg, Customer: "SYLLA Mariama", Address: "Dixinn, Conakry",
			MinAmount: 10000, MaxAmount: 100000, DueIn: 10 * 24 * time.Hour},
		"guilab": {Pattern: regexp.MustCompile(`^GL\d{6}$`), Message: "Le numéro client doit être au format GL suivi de 6 chiffres",
			Customer: "SOW Aissatou", Address: "Kipé, Ratoma, Conakry", MinAmount: 150000, MaxAmount: 600000, DueIn: 30 * 24 * time.Hour},
		"canal": {Pattern: regexp.MustCompile(`^\d{14}$`), Message: "Le numéro d'abonné doit contenir 14 chiffres",
			Customer: "KEITA Oumar", Address: "Lambanyi, Ratoma, Conakry", MinAmount: 75000, MaxAmount: 250000, DueIn: 30 * 24 * time.Hour},
	}

	s.merchants = map[string]MerchantProfile{
		"espace": {Pattern: regexp.MustCompile(`^ESP\d{8}$`), Message: "Le numéro de commande doit être au format ESP suivi de 8 chiffres",
			Customer: "KOUROUMA Sekou", Location: "Espace Kaloum, Avenue de la République, Conakry", Amount: gnf(275000), OrderReference: "CMD-ESP-0142"},
		"prima": {Pattern: regexp.MustCompile(`^PRC\d{6}$`), Message: "Le numéro de commande doit être au format PRC suivi de 6 chiffres",
			Customer: "TOURE Aminata", Location: "Prima Center, Route du Niger, Conakry", Amount: gnf(182500), OrderReference: "CMD-PRC-0078"},
		"pharmacie": {Pattern: regexp.MustCompile(`^PHC\d{6}$`), Message: "Le numéro d'ordonnance doit être au format PHC suivi de 6 chiffres",
			Customer: "CONDE Alpha", Location: "Pharmacie Centrale, Kaloum, Conakry", Amount: gnf(64000), OrderReference: "ORD-PHC-0311"},
	}

	validUntil := time.Date(2026, time.December, 31, 23, 59, 59, 0, time.UTC)
	s.promotions = []domain.Promotion{
		{ID: "promo_edg_cashback", ProviderID: "edg", Title: "2% remboursés sur l'électricité", Description: "Payez votre facture EDG en ligne et recevez 2% de cashback.", ValidUntil: validUntil},
		{ID: "promo_orange_bonus", ProviderID: "orange", Title: "Bonus crédit Orange", Description: "10% de crédit offert pour toute recharge supérieure à 50 000 GNF.", ValidUntil: validUntil},
		{ID: "promo_prima_fee", ProviderID: "prima", Title: "Frais offerts chez Prima Center", Description: "Aucun frais sur vos commandes Prima Center ce mois-ci.", ValidUntil: validUntil},
	}

	s.products = []domain.InvestmentProduct{
		{ID: "dat", Name: "Dépôt à terme", Description: "Placement à taux fixe garanti.",
			Rate: decimal.RequireFromString("0.065"), MinAmount: gnf(1000000), Durations: []int{6, 12, 24}},
		{ID: "bons_tresor", Name: "Bons du Trésor", Description: "Titres de l'État à rendement élevé.",
			Rate: decimal.RequireFromString("0.08"), MinAmount: gnf(5000000), Durations: []int{12, 24, 36}},
		{ID: "epargne_plus", Name: "Épargne Plus", Description: "Épargne souple accessible dès 100 000 GNF.",
			Rate: decimal.RequireFromString("0.045"), MinAmount: gnf(100000), Durations: []int{3, 6, 12}},
	}
}
