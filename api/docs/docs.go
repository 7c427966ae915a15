// Package docs holds the OpenAPI description of the API. It is kept in sync
// with the handler annotations by hand; regenerate with `swag init -g api/docs.go`.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "license": {
            "name": "Apache 2.0",
            "url": "http://www.apache.org/licenses/LICENSE-2.0.html"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/rules": {
            "get": {"tags": ["Rules"], "summary": "List rules", "produces": ["application/json"],
                "parameters": [{"enum": ["created", "name"], "type": "string", "description": "Sort order", "name": "sort", "in": "query"}],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.IndexedRule"}}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}}},
            "post": {"tags": ["Rules"], "summary": "Add a rule", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"description": "Rule fields", "name": "rule", "in": "body", "schema": {"$ref": "#/definitions/models.Rule"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/models.IndexedRule"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}}},
            "put": {"tags": ["Rules"], "summary": "Replace all rules", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"description": "New rule list", "name": "rules", "in": "body", "required": true, "schema": {"type": "array", "items": {"$ref": "#/definitions/models.Rule"}}}],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.Rule"}}}}}
        },
        "/rules/export": {
            "get": {"tags": ["Rules"], "summary": "Export rules", "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.Rule"}}}}}
        },
        "/rules/import": {
            "post": {"tags": ["Rules"], "summary": "Import rules", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"description": "Exported rule file", "name": "rules", "in": "body", "required": true, "schema": {"type": "array", "items": {"$ref": "#/definitions/models.Rule"}}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.ImportResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}}}
        },
        "/rules/{index}": {
            "get": {"tags": ["Rules"], "summary": "Get a rule",
                "parameters": [{"type": "integer", "description": "Stored rule index", "name": "index", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.IndexedRule"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}}},
            "put": {"tags": ["Rules"], "summary": "Replace a rule",
                "parameters": [{"type": "integer", "description": "Stored rule index", "name": "index", "in": "path", "required": true},
                    {"description": "Rule", "name": "rule", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.Rule"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.IndexedRule"}}}},
            "patch": {"tags": ["Rules"], "summary": "Edit rule fields",
                "parameters": [{"type": "integer", "description": "Stored rule index", "name": "index", "in": "path", "required": true},
                    {"description": "Fields to change", "name": "patch", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.Rule"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.IndexedRule"}}}},
            "delete": {"tags": ["Rules"], "summary": "Delete a rule",
                "parameters": [{"type": "integer", "description": "Stored rule index", "name": "index", "in": "path", "required": true}],
                "responses": {"204": {"description": "No Content"}}}
        },
        "/rules/{index}/duplicate": {
            "post": {"tags": ["Rules"], "summary": "Duplicate a rule",
                "parameters": [{"type": "integer", "description": "Stored rule index", "name": "index", "in": "path", "required": true}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/models.IndexedRule"}}}}
        },
        "/settings/global-enabled": {
            "get": {"tags": ["Settings"], "summary": "Get global switch",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.GlobalEnabledRequest"}}}},
            "put": {"tags": ["Settings"], "summary": "Set global switch",
                "parameters": [{"description": "New state", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.GlobalEnabledRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.GlobalEnabledRequest"}}}}
        },
        "/settings/sort": {
            "get": {"tags": ["Settings"], "summary": "Get sort preference",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.SortRequest"}}}},
            "put": {"tags": ["Settings"], "summary": "Set sort preference",
                "parameters": [{"description": "created or name", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.SortRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.SortRequest"}}}}
        },
        "/status": {
            "get": {"tags": ["Status"], "summary": "Rule summary",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.StatusResponse"}}}}
        },
        "/directives": {
            "get": {"tags": ["Status"], "summary": "Installed directives",
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"type": "object"}}}}}
        },
        "/badges": {
            "get": {"tags": ["Status"], "summary": "Tab badges",
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.Badge"}}}}}
        },
        "/badges/{tab}": {
            "get": {"tags": ["Status"], "summary": "Tab badge",
                "parameters": [{"type": "string", "description": "Tab id", "name": "tab", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Badge"}}}}
        },
        "/share/ingest": {
            "post": {"tags": ["Share"], "summary": "Ingest a share link",
                "parameters": [{"description": "Share URL", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.ShareIngestRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.ShareIngestResponse"}}}}
        },
        "/share/link": {
            "post": {"tags": ["Share"], "summary": "Build a share link",
                "parameters": [{"description": "Base URL and rules", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.ShareLinkRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.ShareLinkResponse"}}}}
        },
        "/matches": {
            "get": {"tags": ["Matches"], "summary": "List rule matches", "produces": ["application/json"],
                "parameters": [
                    {"type": "integer", "default": 1, "description": "Page number", "name": "page", "in": "query"},
                    {"type": "integer", "default": 50, "description": "Entries per page", "name": "limit", "in": "query"},
                    {"enum": ["asc", "desc"], "type": "string", "description": "asc or desc", "name": "sort_order", "in": "query"},
                    {"type": "string", "description": "Only matches from this tab", "name": "tab", "in": "query"},
                    {"type": "integer", "description": "Only matches of this directive id", "name": "directive", "in": "query"},
                    {"enum": ["redirect", "modifyHeaders"], "type": "string", "description": "Only this action type", "name": "action", "in": "query"},
                    {"type": "string", "description": "Substring of the request or redirect URL", "name": "search", "in": "query"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.PaginatedMatchLogResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}}},
            "delete": {"tags": ["Matches"], "summary": "Clear rule matches",
                "responses": {"200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "integer"}}}}}
        },
        "/version": {
            "get": {"tags": ["Version"], "summary": "Get application version",
                "responses": {"200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}}}
        }
    },
    "definitions": {
        "models.Rule": {"type": "object", "properties": {
            "title": {"type": "string", "example": "Local API"},
            "source": {"type": "string", "example": "https://api.example.com/*"},
            "target": {"type": "string", "example": "http://localhost:3000/*"},
            "cookieValue": {"type": "string", "example": "session=dev"},
            "enabled": {"type": "boolean", "example": true},
            "type": {"type": "string", "enum": ["redirect", "setCookie"], "example": "redirect"}}},
        "models.IndexedRule": {"type": "object", "properties": {
            "index": {"type": "integer", "example": 0},
            "title": {"type": "string"}, "source": {"type": "string"}, "target": {"type": "string"},
            "cookieValue": {"type": "string"}, "enabled": {"type": "boolean"},
            "type": {"type": "string", "enum": ["redirect", "setCookie"]}}},
        "models.ErrorResponse": {"type": "object", "properties": {"message": {"type": "string"}}},
        "models.ImportResponse": {"type": "object", "properties": {"imported": {"type": "integer"}}},
        "models.GlobalEnabledRequest": {"type": "object", "properties": {"enabled": {"type": "boolean"}}},
        "models.SortRequest": {"type": "object", "properties": {"sortBy": {"type": "string", "enum": ["created", "name"]}}},
        "models.StatusResponse": {"type": "object", "properties": {
            "enabled": {"type": "integer"}, "total": {"type": "integer"}, "summary": {"type": "string", "example": "3 of 5"},
            "globalEnabled": {"type": "boolean"}, "icon": {"type": "string", "enum": ["active", "inactive"]},
            "installed": {"type": "integer"}}},
        "models.Badge": {"type": "object", "properties": {
            "tabId": {"type": "string"}, "text": {"type": "string"}, "color": {"type": "string"}}},
        "models.ShareIngestRequest": {"type": "object", "properties": {"url": {"type": "string"}}},
        "models.ShareIngestResponse": {"type": "object", "properties": {
            "url": {"type": "string"}, "rules": {"type": "array", "items": {"$ref": "#/definitions/models.Rule"}}}},
        "models.ShareLinkRequest": {"type": "object", "properties": {
            "base": {"type": "string"}, "rules": {"type": "array", "items": {"$ref": "#/definitions/models.Rule"}}}},
        "models.ShareLinkResponse": {"type": "object", "properties": {"url": {"type": "string"}}},
        "models.MatchLogEntry": {"type": "object", "properties": {
            "id": {"type": "integer"}, "ruleId": {"type": "integer"}, "tabId": {"type": "string"},
            "url": {"type": "string"}, "type": {"type": "string"}, "requestId": {"type": "string"},
            "timestamp": {"type": "string", "format": "date-time"},
            "action": {"type": "string", "enum": ["redirect", "modifyHeaders"]}, "redirectUrl": {"type": "string"}}},
        "models.PaginatedMatchLogResponse": {"type": "object", "properties": {
            "page": {"type": "integer"}, "limit": {"type": "integer"},
            "total_records": {"type": "integer"}, "total_pages": {"type": "integer"},
            "items": {"type": "array", "items": {"$ref": "#/definitions/models.MatchLogEntry"}}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "v0.1.0",
	Host:             "localhost:8778",
	BasePath:         "/api",
	Schemes:          []string{"http"},
	Title:            "Redirectly API",
	Description:      "Manage wildcard redirect and cookie rules enforced by the Redirectly proxy.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
