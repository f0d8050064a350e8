// Package docs registers the OpenAPI document of the server with swag.
//
// The document mirrors the godoc annotations on the handlers; keep them in sync
// (`swag init -g cmd/newsposts-server/main.go -o internal/docs` regenerates it).
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "license": {
            "name": "MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/newsposts": {
            "get": {
                "produces": ["application/json"],
                "tags": ["NewsPosts"],
                "summary": "List news posts",
                "parameters": [
                    {"type": "integer", "default": 0, "description": "Zero based page number", "name": "page", "in": "query"},
                    {"type": "integer", "default": 10, "description": "Page size", "name": "size", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/newsposts.NewsPostListResponse"}},
                    "304": {"description": "Not modified (If-None-Match matched the ETag)"},
                    "400": {"description": "Invalid page or size", "schema": {"$ref": "#/definitions/newsposts.ErrorResponse"}},
                    "500": {"description": "Internal error", "schema": {"$ref": "#/definitions/newsposts.ErrorResponse"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["NewsPosts"],
                "summary": "Create a news post",
                "parameters": [
                    {"description": "News post", "name": "post", "in": "body", "required": true, "schema": {"$ref": "#/definitions/newsposts.CreateNewsPostRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/newsposts.NewsPostResponse"}},
                    "400": {"description": "Invalid request", "schema": {"$ref": "#/definitions/newsposts.ErrorResponse"}},
                    "413": {"description": "Request too large", "schema": {"$ref": "#/definitions/newsposts.ErrorResponse"}}
                }
            }
        },
        "/api/newsposts/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["NewsPosts"],
                "summary": "Get a news post",
                "parameters": [
                    {"type": "string", "description": "News post ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/newsposts.NewsPostResponse"}},
                    "304": {"description": "Not modified (If-None-Match matched the ETag)"},
                    "400": {"description": "Invalid news post ID", "schema": {"$ref": "#/definitions/newsposts.ErrorResponse"}},
                    "404": {"description": "News post not found", "schema": {"$ref": "#/definitions/newsposts.ErrorResponse"}}
                }
            },
            "put": {
                "description": "Fields that are omitted keep their current value. At least one field is required.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["NewsPosts"],
                "summary": "Update a news post",
                "parameters": [
                    {"type": "string", "description": "News post ID", "name": "id", "in": "path", "required": true},
                    {"description": "Fields to change", "name": "post", "in": "body", "required": true, "schema": {"$ref": "#/definitions/newsposts.UpdateNewsPostRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/newsposts.NewsPostResponse"}},
                    "400": {"description": "Invalid request", "schema": {"$ref": "#/definitions/newsposts.ErrorResponse"}},
                    "404": {"description": "News post not found", "schema": {"$ref": "#/definitions/newsposts.ErrorResponse"}}
                }
            },
            "delete": {
                "tags": ["NewsPosts"],
                "summary": "Delete a news post",
                "parameters": [
                    {"type": "string", "description": "News post ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "400": {"description": "Invalid news post ID", "schema": {"$ref": "#/definitions/newsposts.ErrorResponse"}},
                    "404": {"description": "News post not found", "schema": {"$ref": "#/definitions/newsposts.ErrorResponse"}}
                }
            }
        },
        "/error": {
            "get": {
                "description": "Diagnostic endpoint that always fails. Use it to check error responses and error logging.",
                "produces": ["application/json"],
                "tags": ["Common"],
                "summary": "Trigger an error",
                "responses": {
                    "500": {"description": "Always", "schema": {"$ref": "#/definitions/newsposts.ErrorResponse"}}
                }
            }
        },
        "/health/live": {
            "get": {
                "description": "Check if the HTTP service is alive and responding.",
                "produces": ["text/plain"],
                "tags": ["Common"],
                "summary": "Health (liveness) Check",
                "responses": {"200": {"description": "OK", "schema": {"type": "string"}}}
            }
        },
        "/health/ready": {
            "get": {
                "description": "Checks the database (required) and the post cache (optional).",
                "produces": ["application/json"],
                "tags": ["Common"],
                "summary": "Readiness Check",
                "responses": {
                    "200": {"description": "ready or degraded", "schema": {"$ref": "#/definitions/handlers.ReadinessResponse"}},
                    "503": {"description": "not ready", "schema": {"$ref": "#/definitions/handlers.ReadinessResponse"}}
                }
            }
        },
        "/version": {
            "get": {
                "description": "Returns the version and build information for the service",
                "produces": ["application/json"],
                "tags": ["Common"],
                "summary": "Get version information",
                "responses": {"200": {"description": "Version information", "schema": {"$ref": "#/definitions/handlers.VersionResponse"}}}
            }
        }
    },
    "definitions": {
        "handlers.ReadinessResponse": {
            "type": "object",
            "properties": {
                "checks": {"type": "object", "additionalProperties": {"type": "string"}},
                "status": {"type": "string", "enum": ["ready", "degraded", "not ready"], "example": "ready"}
            }
        },
        "handlers.VersionResponse": {
            "type": "object",
            "properties": {
                "build_time": {"type": "string", "example": "2026-01-28T10:00:00Z"},
                "git_commit": {"type": "string", "example": "3f2c1a9"},
                "go_version": {"type": "string", "example": "go1.25.4"},
                "service": {"type": "string", "example": "newsposts-server"},
                "version": {"type": "string", "example": "1.0.0"}
            }
        },
        "newsposts.CreateNewsPostRequest": {
            "type": "object",
            "properties": {
                "genre": {"type": "string", "enum": ["Politic", "Business", "Sport", "Other"], "example": "Politic"},
                "header": {"type": "string", "example": "Elections announced"},
                "isPrivate": {"type": "boolean", "example": false},
                "text": {"type": "string", "example": "The general election will take place in May."}
            }
        },
        "newsposts.UpdateNewsPostRequest": {
            "type": "object",
            "properties": {
                "genre": {"type": "string", "enum": ["Politic", "Business", "Sport", "Other"], "example": "Politic"},
                "header": {"type": "string", "example": "Elections postponed"},
                "isPrivate": {"type": "boolean", "example": true},
                "text": {"type": "string", "example": "The general election has been moved to June."}
            }
        },
        "newsposts.NewsPostResponse": {
            "type": "object",
            "properties": {
                "createdAt": {"type": "string", "example": "2026-01-02T15:04:05Z"},
                "genre": {"type": "string", "example": "Politic"},
                "header": {"type": "string", "example": "Elections announced"},
                "id": {"type": "string", "example": "6f0c8e86-9b38-4a56-9d59-0e4a8e0c2d4b"},
                "isPrivate": {"type": "boolean", "example": false},
                "text": {"type": "string", "example": "The general election will take place in May."},
                "updatedAt": {"type": "string", "example": "2026-01-02T15:04:05Z"}
            }
        },
        "newsposts.NewsPostListResponse": {
            "type": "object",
            "properties": {
                "items": {"type": "array", "items": {"$ref": "#/definitions/newsposts.NewsPostResponse"}},
                "page": {"type": "integer", "example": 0},
                "size": {"type": "integer", "example": 10},
                "total": {"type": "integer", "example": 42}
            }
        },
        "newsposts.DetailedError": {
            "type": "object",
            "properties": {
                "errorCode": {"type": "integer", "example": 4004},
                "errorCodeMessage": {"type": "string", "example": "news post not found"},
                "errorCodeText": {"type": "string", "example": "Not found"}
            }
        },
        "newsposts.ErrorResponse": {
            "type": "object",
            "properties": {
                "errorDateTime": {"type": "string", "example": "2026-01-02T15:04:05Z"},
                "errors": {"type": "array", "items": {"$ref": "#/definitions/newsposts.DetailedError"}},
                "httpMethod": {"type": "string", "example": "GET"},
                "providerCorrelationReference": {"type": "string"},
                "requestUri": {"type": "string", "example": "/api/newsposts/6f0c8e86-9b38-4a56-9d59-0e4a8e0c2d4b"},
                "statusCode": {"type": "integer", "example": 404},
                "statusCodeMessage": {"type": "string", "example": "Not found"},
                "statusCodeText": {"type": "string", "example": "Not Found"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "newsposts-server",
	Description:      "REST API for news posts. The server also serves the client application.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
