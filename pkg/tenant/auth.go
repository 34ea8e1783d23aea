package tenant

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/goccy/go-json"
)

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	TenantID string `json:"tenantId,omitempty"`
}

type SignUpRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phoneNumber,omitempty"`
	TenantID  string `json:"tenantId,omitempty"`
}

type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	FullName    string `json:"fullName"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
}

var errNoToken = errors.New("tenant: sign-in returned no token")

// tokenReply accepts both a bare JSON string and {"token": "..."}.
type tokenReply string

func (t *tokenReply) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*t = tokenReply(s)
		return nil
	}
	var obj struct {
		Token       string `json:"token"`
		AccessToken string `json:"accessToken"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	if obj.Token != "" {
		*t = tokenReply(obj.Token)
	} else {
		*t = tokenReply(obj.AccessToken)
	}
	return nil
}

func (c *Client) SignIn(ctx context.Context, creds Credentials) (string, error) {
	if creds.TenantID == "" {
		creds.TenantID = c.tenantID
	}
	var tok tokenReply
	if err := c.do(ctx, http.MethodPost, "/auth/sign-in", "", nil, creds, &tok); err != nil {
		return "", err
	}
	if strings.TrimSpace(string(tok)) == "" {
		return "", errNoToken
	}
	return string(tok), nil
}

func (c *Client) SignUp(ctx context.Context, req SignUpRequest) (string, error) {
	if req.TenantID == "" {
		req.TenantID = c.tenantID
	}
	var tok tokenReply
	if err := c.do(ctx, http.MethodPost, "/auth/sign-up", "", nil, req, &tok); err != nil {
		return "", err
	}
	if strings.TrimSpace(string(tok)) == "" {
		return "", errNoToken
	}
	return string(tok), nil
}

func (c *Client) Me(ctx context.Context, token string) (*User, error) {
	var u User
	if err := c.do(ctx, http.MethodGet, "/auth/me", token, nil, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}
