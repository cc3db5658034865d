package common

// AuthorizationHeaderName is the HTTP header carrying the session token.
const AuthorizationHeaderName = "Authorization"

// BearerScheme prefixes the token inside AuthorizationHeaderName.
const BearerScheme = "Bearer"
