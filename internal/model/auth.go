package model

import "github.com/golang-jwt/jwt/v5"

// ClientClaims identify one anonymous browser client. They carry no
// credentials and only namespace that client's persisted state.
type ClientClaims struct {
	ClientID string `json:"clientId"`
	jwt.RegisteredClaims
}

// ClientResponse is returned when a client identity is issued
type ClientResponse struct {
	Token    string `json:"token"`
	ClientID string `json:"clientId"`
}
