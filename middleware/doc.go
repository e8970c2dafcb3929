// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Identity

Callers identify themselves with two headers:

	X-Identity:     0x5aeda56215b167893e80b4fe645ba6d5bab767de
	X-Identity-Key: <key from POST /voters or -print-admin-key>

RequireIdentity validates the pair and stores the normalized identity in
the request context:

	mux.HandleFunc("POST /votes", middleware.RequireIdentity(cfg.IdentityKeySalt, h.CastVote))

	caller := middleware.Identity(r.Context())

# Request Logging

WithLogging tags each response with X-Request-ID (reusing the client's if
sent) and logs method, path, status and duration_ms.

# CORS Middleware

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

Allows GET, POST, DELETE, OPTIONS with Content-Type and the identity and
request id headers.

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

ParseJSONBody rejects unknown fields and empty bodies.

# Client IP Extraction

GetClientIP honours X-Forwarded-For and X-Real-IP. The IP is only ever
stored hashed on the ballot.
*/
package middleware
