// Package main AidLink API
//
// @title           AidLink API
// @version         1.0
// @description     Community aid platform REST API - Post needs, browse the public feed and find verified organizations.
//
// @host            localhost:8443
// @BasePath        /
// @schemes         https http
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer token authentication. Prefix the token with "Bearer ".
package main
