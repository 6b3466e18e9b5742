package v1

// BasePath is the prefix of every messenger API route.
const BasePath = "/api"
