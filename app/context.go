package main

import (
	"context"
	"net/http"

	"github.com/sushihentaime/samyati/internal/authservice"
)

type contextKey string

const identityContextKey = contextKey("identity")

func (app *application) contextSetIdentity(r *http.Request, identity *authservice.Identity) *http.Request {
	ctx := context.WithValue(r.Context(), identityContextKey, identity)
	return r.WithContext(ctx)
}

func (app *application) contextGetIdentity(r *http.Request) *authservice.Identity {
	identity, ok := r.Context().Value(identityContextKey).(*authservice.Identity)
	if !ok {
		panic("missing identity value in request context")
	}

	return identity
}
