// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Quickly Elect API.

# Route Registration

NewRouter creates a configured http.ServeMux over one election engine:

	mux := router.NewRouter(engine, cfg)

Routes marked (auth) go through middleware.RequireIdentity and need the
X-Identity and X-Identity-Key headers.

# Endpoints

Health:

	GET /health

Election lifecycle:

	POST   /election        - Create election (auth, admin)
	POST   /election/start  - Open voting (auth, admin)
	POST   /election/end    - Close voting (auth, admin)
	DELETE /election        - Clear an ended election (auth, admin)
	GET    /election        - Name, is_active, has_ended
	GET    /election/admin  - Admin identity

Candidates:

	POST /candidates                 - Register (anyone)
	GET  /candidates[?approved=true] - Roster
	GET  /candidates/{index}         - One candidate
	POST /candidates/{index}/approve - Approve (auth, admin)

Voters:

	POST /voters                       - Register, returns identity_key
	POST /voters/login                 - Open session (auth)
	POST /voters/logout                - Close session (auth)
	GET  /voters/{identity}            - Details
	GET  /voters/{identity}/session    - Logged in?
	GET  /voters/{identity}/voted      - Has voted?
	GET  /voters/{identity}/registered - Registered?
	GET  /voters/{identity}/ballot     - Ballot and receipt (auth, owner or admin)

Voting and results:

	POST /votes          - Cast the single vote (auth)
	GET  /ballots        - Ballot audit (auth, admin)
	GET  /results        - Ranked tally and turnout
	GET  /results/winner - Leader, or the no-winner sentinel
	GET  /events         - Server-sent change feed
*/
package router
