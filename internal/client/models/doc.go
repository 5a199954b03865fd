// Package models defines the client-side data shapes of the VetClinic
// session: the signed-in user's profile, the payloads of the auth endpoints
// and the patch type used for profile updates.
package models
