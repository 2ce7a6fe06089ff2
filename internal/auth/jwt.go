package auth

import (
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/nurpe/billing-reports/internal/model"
)

var (
	ErrEmptyToken   = errors.New("auth: empty token")
	ErrInvalidToken = errors.New("auth: invalid token")
)

// Claims are the access token claims issued by the identity service.
type Claims struct {
	OrgID string `json:"org_id"`
	Role  string `json:"role"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

type Parser struct {
	secret []byte
}

func NewParser(secret string) *Parser {
	return &Parser{secret: []byte(secret)}
}

// Parse validates an HS256 access token and maps it to a principal.
func (p *Parser) Parse(tokenString string) (model.Principal, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return model.Principal{}, ErrEmptyToken
	}
	if len(p.secret) == 0 {
		return model.Principal{}, errors.New("auth: empty secret")
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	claims := &Claims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("auth: invalid signing method")
		}
		return p.secret, nil
	})
	if err != nil {
		return model.Principal{}, errors.Join(ErrInvalidToken, err)
	}
	if !token.Valid {
		return model.Principal{}, ErrInvalidToken
	}
	return claims.principal()
}

func (c *Claims) principal() (model.Principal, error) {
	userID, err := uuid.Parse(c.Subject)
	if err != nil {
		return model.Principal{}, errors.New("auth: invalid subject")
	}

	role, ok := normalizeRole(c.Role)
	if !ok {
		return model.Principal{}, errors.New("auth: invalid role")
	}

	principal := model.Principal{
		UserID:   userID,
		UserName: c.Name,
		Role:     role,
	}
	if strings.TrimSpace(c.OrgID) != "" {
		orgID, err := uuid.Parse(c.OrgID)
		if err != nil {
			return model.Principal{}, errors.New("auth: invalid org_id")
		}
		principal.OrgID = orgID
	}
	if role == model.UserRoleContractor && principal.OrgID == uuid.Nil {
		return model.Principal{}, errors.New("auth: missing org_id")
	}
	return principal, nil
}

func normalizeRole(raw string) (model.UserRole, bool) {
	role := model.UserRole(strings.ToUpper(strings.TrimSpace(raw)))
	switch role {
	case model.UserRoleAdmin, model.UserRoleAccountant, model.UserRoleContractor, model.UserRoleDriver:
		return role, true
	default:
		return "", false
	}
}
