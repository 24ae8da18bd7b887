package services

import (
	"errors"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// Principal is the authenticated caller of an operation.
type Principal struct {
	UserID uuid.UUID
	Email  string
	Role   string
}

func PrincipalFromClaims(claims jwt.MapClaims) (Principal, error) {
	rawID, _ := claims["user_id"].(string)
	id, err := uuid.Parse(rawID)
	if err != nil {
		return Principal{}, errors.New("token has no valid user_id")
	}
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)
	return Principal{UserID: id, Email: email, Role: role}, nil
}
