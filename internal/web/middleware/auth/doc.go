// Package auth provides the admin token middleware for the api and admin routes.
//
// The token is never stored, the config holds its argon2id hash only.
// Clients send the token as bearer token:
//
//	Authorization: Bearer <token>
//
// Browsers visiting the admin pages may send it in the systeminfo_token cookie instead.
// With an empty hash the middleware lets every request pass.
//
// Usage:
//
//	api := app.Group("/api", auth.New(cfg.Webserver.AdminTokenHash))
package auth
