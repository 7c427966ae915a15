package api

// @title Redirectly API
// @version v0.1.0
// @description Manage wildcard redirect and cookie rules enforced by the Redirectly proxy.

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8778
// @BasePath /api
// @schemes http
