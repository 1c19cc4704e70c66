// Package server provides the short-lived HTTP listener used during OAuth2 authorization.
//
// [BasicRouter] mounts [Handler]s on an [http.ServeMux]; middleware registered with Use runs in the
// order it was added (see [Chain]). [RequestLogger] logs each hit without its query string.
//
// [OAuthHandler] accepts one callback on the redirect URI's path, checks the state parameter,
// exchanges the code and publishes a single [CallbackResult]. Later hits are answered with 409.
package server
