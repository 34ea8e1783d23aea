package tenant

import (
	"context"
	"net/http"
)

type Reclamation struct {
	ID            string `json:"id"`
	Type          string `json:"type"`
	Subject       string `json:"subject"`
	Description   string `json:"description"`
	Status        string `json:"status"`
	AccountNumber string `json:"accountNumber,omitempty"`
	Priority      string `json:"priority,omitempty"`
	CreatedAt     string `json:"createdAt,omitempty"`
	UpdatedAt     string `json:"updatedAt,omitempty"`
}

// ReclamationPage is the list envelope of the tenant API.
type ReclamationPage struct {
	Rows  []Reclamation `json:"rows"`
	Count int           `json:"count"`
}

type ReclamationInput struct {
	Type          string `json:"type"`
	Subject       string `json:"subject"`
	Description   string `json:"description"`
	AccountNumber string `json:"accountNumber,omitempty"`
	Priority      string `json:"priority,omitempty"`
	Status        string `json:"status"`
}

func (c *Client) ListReclamations(ctx context.Context, token string, limit, offset int) (*ReclamationPage, error) {
	var page ReclamationPage
	if err := c.do(ctx, http.MethodGet, c.tenantPath("reclamation"), token, pageQuery(limit, offset), nil, &page); err != nil {
		return nil, err
	}
	if page.Rows == nil {
		page.Rows = []Reclamation{}
	}
	return &page, nil
}

func (c *Client) GetReclamation(ctx context.Context, token, id string) (*Reclamation, error) {
	var r Reclamation
	if err := c.do(ctx, http.MethodGet, c.tenantPath("reclamation", id), token, nil, nil, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// CreateReclamation wraps the input in {"data": ...} as the API expects.
func (c *Client) CreateReclamation(ctx context.Context, token string, in ReclamationInput) (*Reclamation, error) {
	if in.Status == "" {
		in.Status = "pending"
	}
	body := struct {
		Data ReclamationInput `json:"data"`
	}{Data: in}

	var r Reclamation
	if err := c.do(ctx, http.MethodPost, c.tenantPath("reclamation"), token, nil, body, &r); err != nil {
		return nil, err
	}
	return &r, nil
}
