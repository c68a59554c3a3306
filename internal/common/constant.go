package common

// AuthorizationHeaderName is the HTTP header carrying the bearer access token
// on requests to the profile backend.
const AuthorizationHeaderName = "Authorization"

// APIKeyHeaderName is the HTTP header carrying the project API key. The
// hosted backend requires it on every call in addition to the user token.
const APIKeyHeaderName = "apikey"

// StoreNamespace is the fixed key prefix under which the client persists
// its warm-start state ({session, profile}) in the local cache.
const StoreNamespace = "dupliverse-user-store"
