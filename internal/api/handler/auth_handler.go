package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bizsuite/identity-service/internal/api/metrics"
	"github.com/bizsuite/identity-service/internal/api/middleware"
	"github.com/bizsuite/identity-service/internal/core/domain"
	"github.com/bizsuite/identity-service/internal/core/ports"
)

// AuthHandler exposes login, registration, logout and the current-session
// introspection endpoints.
type AuthHandler struct {
	authService    ports.AuthService
	companyService ports.CompanyService
}

func NewAuthHandler(authService ports.AuthService, companyService ports.CompanyService) *AuthHandler {
	return &AuthHandler{authService: authService, companyService: companyService}
}

// Login authenticates a user and returns a session token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	res, err := h.authService.Login(c.Request().Context(), req.Identifier, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		} else {
			metrics.LoginsTotal.WithLabelValues("error").Inc()
		}
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, toLoginResponse(res))
}

// Register creates a user together with their first company.
//
// @Summary      Register a new user and company
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  registerResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	res, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Name:        req.Name,
		Email:       req.Email,
		Username:    req.Username,
		Password:    req.Password,
		CompanyName: req.CompanyName,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, registerResponse{
		Token:   res.Token,
		User:    toUserResponse(res.User),
		Company: toCompanyResponse(res.Company),
	})
}

// SelectCompany binds a company into the session and returns a scoped token.
//
// @Summary      Select a company
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      selectCompanyRequest  true  "Company to bind"
// @Success      200   {object}  selectCompanyResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /auth/select-company [post]
func (h *AuthHandler) SelectCompany(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req selectCompanyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	res, err := h.companyService.SelectCompany(c.Request().Context(), identity, req.CompanyID)
	if err != nil {
		var tse *domain.TenantStateError
		switch {
		case errors.As(err, &tse):
			metrics.CompanySelectionsTotal.WithLabelValues("tenant_state").Inc()
		case errors.Is(err, domain.ErrNoAccess):
			metrics.CompanySelectionsTotal.WithLabelValues("no_access").Inc()
		default:
			metrics.CompanySelectionsTotal.WithLabelValues("error").Inc()
		}
		return err
	}

	metrics.CompanySelectionsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, selectCompanyResponse{
		Token:       res.Token,
		CompanyID:   res.CompanyID,
		Role:        string(res.Role),
		Permissions: permissionStrings(res.Permissions),
	})
}

// Me returns the authenticated identity and its current scope.
//
// @Summary      Current session
// @Tags         auth
// @Produce      json
// @Success      200  {object}  meResponse
// @Failure      401  {object}  errorResponse
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	profile, err := h.companyService.Profile(c.Request().Context(), identity)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, meResponse{
		User:        toUserResponse(profile.User),
		CompanyID:   profile.CompanyID,
		Role:        string(profile.Role),
		Permissions: permissionStrings(profile.Permissions),
	})
}

// Companies lists the companies the identity may operate in.
//
// @Summary      Accessible companies
// @Tags         auth
// @Produce      json
// @Success      200  {object}  companiesResponse
// @Failure      401  {object}  errorResponse
// @Router       /auth/companies [get]
func (h *AuthHandler) Companies(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	accesses, err := h.companyService.AccessibleCompanies(c.Request().Context(), identity)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, companiesResponse{Companies: toCompanyAccessResponses(accesses)})
}

// Logout ends the session. Deliberately not behind the Auth middleware: an
// expired or already-revoked token still gets a success response, so repeated
// logouts are harmless.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  logoutResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	token, err := middleware.BearerToken(c)
	if err != nil {
		return c.JSON(http.StatusOK, logoutResponse{Success: true})
	}

	if err := h.authService.Logout(c.Request().Context(), token); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, logoutResponse{Success: true})
}
