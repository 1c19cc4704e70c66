// Package services defines the [Service] interface for music streaming providers and implements it for Spotify.
//
// # Spotify Implementation
//
// [SpotifyService] is a thin client over the Spotify Web API authenticated with a bearer token obtained by the
// auth package. It never refreshes tokens.
//
// Every request carries a bounded timeout and is paced by a client-side [rate.Limiter]. Pacing only spaces
// requests out; there is no retry or backoff when the API answers 429.
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrNotAuthenticated] : no access token was supplied
//   - [shared.ErrTransport] : the request could not be sent or timed out
//   - [shared.ErrAPIRequest] : the API answered with a non-2xx status (also matches ErrTransport)
//   - [shared.ErrParse] : the body could not be decoded or failed validation
//
// # API Mappings
//
// Responses decode straight into the typed records in models, so JSON written from them keeps the API's shape.
// Pages are validated before they are returned.
package services
