package handler

import (
	"time"

	"github.com/bizsuite/identity-service/internal/core/domain"
	"github.com/bizsuite/identity-service/internal/core/ports"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---

type loginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password"   validate:"required"`
}

type registerRequest struct {
	Name        string `json:"name"         validate:"required"`
	Email       string `json:"email"        validate:"required,email"`
	Username    string `json:"username"`
	Password    string `json:"password"     validate:"required,min=8"`
	CompanyName string `json:"company_name" validate:"required"`
}

type selectCompanyRequest struct {
	CompanyID string `json:"company_id" validate:"required"`
}

type inviteRequest struct {
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role"  validate:"required,oneof=owner admin accountant manager cashier"`
}

type acceptInvitationRequest struct {
	Token    string `json:"token" validate:"required"`
	Name     string `json:"name"`
	Password string `json:"password" validate:"omitempty,min=8"`
}

// --- Response types ---

type userResponse struct {
	ID         string `json:"id"`
	Username   string `json:"username,omitempty"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	SuperAdmin bool   `json:"super_admin,omitempty"`
}

type companyResponse struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	TradingName        string `json:"trading_name,omitempty"`
	SubscriptionStatus string `json:"subscription_status"`
}

type companyAccessResponse struct {
	companyResponse
	Role    string `json:"role"`
	Primary bool   `json:"primary,omitempty"`
}

type loginResponse struct {
	Token                    string                  `json:"token"`
	User                     userResponse            `json:"user"`
	Companies                []companyAccessResponse `json:"companies"`
	SelectedCompany          *companyAccessResponse  `json:"selected_company,omitempty"`
	DefaultCompanyID         string                  `json:"default_company_id,omitempty"`
	RequiresCompanySelection bool                    `json:"requires_company_selection"`
}

type registerResponse struct {
	Token   string          `json:"token"`
	User    userResponse    `json:"user"`
	Company companyResponse `json:"company"`
}

type selectCompanyResponse struct {
	Token       string   `json:"token"`
	CompanyID   string   `json:"company_id"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}

type meResponse struct {
	User        userResponse `json:"user"`
	CompanyID   string       `json:"company_id,omitempty"`
	Role        string       `json:"role,omitempty"`
	Permissions []string     `json:"permissions,omitempty"`
}

type companiesResponse struct {
	Companies []companyAccessResponse `json:"companies"`
}

type logoutResponse struct {
	Success bool `json:"success"`
}

type invitationResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CompanyID string    `json:"company_id"`
	Role      string    `json:"role"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type membershipResponse struct {
	CompanyID string `json:"company_id"`
	Role      string `json:"role"`
	Primary   bool   `json:"primary"`
}

// --- Mappers ---

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		Name:       u.Name,
		SuperAdmin: u.SuperAdmin,
	}
}

func toCompanyResponse(c *domain.Company) companyResponse {
	return companyResponse{
		ID:                 c.ID,
		Name:               c.Name,
		TradingName:        c.TradingName,
		SubscriptionStatus: string(c.SubscriptionStatus),
	}
}

func toCompanyAccessResponse(a domain.CompanyAccess) companyAccessResponse {
	return companyAccessResponse{
		companyResponse: toCompanyResponse(&a.Company),
		Role:            string(a.Role),
		Primary:         a.Primary,
	}
}

func toCompanyAccessResponses(accesses []domain.CompanyAccess) []companyAccessResponse {
	out := make([]companyAccessResponse, 0, len(accesses))
	for _, a := range accesses {
		out = append(out, toCompanyAccessResponse(a))
	}
	return out
}

func permissionStrings(perms []domain.Permission) []string {
	out := make([]string, 0, len(perms))
	for _, p := range perms {
		out = append(out, string(p))
	}
	return out
}

func toLoginResponse(res *ports.LoginResult) loginResponse {
	resp := loginResponse{
		Token:                    res.Token,
		User:                     toUserResponse(res.User),
		Companies:                toCompanyAccessResponses(res.Companies),
		DefaultCompanyID:         res.DefaultCompanyID,
		RequiresCompanySelection: res.RequiresCompanySelection,
	}
	if res.SelectedCompany != nil {
		selected := toCompanyAccessResponse(*res.SelectedCompany)
		resp.SelectedCompany = &selected
	}
	return resp
}
