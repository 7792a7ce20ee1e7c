// Package docs holds the OpenAPI document served at /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/v1/items": {
            "get": {
                "produces": ["application/json"],
                "summary": "List documents, paginated when page or limit is given",
                "parameters": [
                    {"type": "integer", "description": "1-indexed page", "name": "page", "in": "query"},
                    {"type": "integer", "description": "page size (max 100)", "name": "limit", "in": "query"},
                    {"type": "string", "description": "field or -field", "name": "sort", "in": "query"},
                    {"type": "string", "name": "name", "in": "query"},
                    {"type": "integer", "name": "quantity", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.successPayload"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "summary": "Create a document",
                "parameters": [
                    {"description": "item", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.CreateItemRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.successPayload"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "summary": "Update every document matching the query-string filter",
                "parameters": [
                    {"type": "string", "name": "name", "in": "query"},
                    {"type": "integer", "name": "quantity", "in": "query"},
                    {"description": "fields to set", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.UpdateItemRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.successPayload"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "summary": "Delete every document matching the query-string filter",
                "parameters": [
                    {"type": "string", "name": "name", "in": "query"},
                    {"type": "integer", "name": "quantity", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.successPayload"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/api/v1/items/bulk": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "summary": "Create several documents from a JSON array",
                "parameters": [
                    {"description": "items (1 to 100)", "name": "body", "in": "body", "required": true, "schema": {"type": "array", "items": {"$ref": "#/definitions/handler.CreateItemRequest"}}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.successPayload"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/api/v1/items/export": {
            "post": {
                "produces": ["application/json"],
                "summary": "Export matching documents as NDJSON to object storage",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.successPayload"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/api/v1/items/{id}": {
            "get": {
                "produces": ["application/json"],
                "summary": "Fetch one document",
                "parameters": [{"type": "string", "description": "document id", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.successPayload"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "summary": "Update one document",
                "parameters": [
                    {"type": "string", "description": "document id", "name": "id", "in": "path", "required": true},
                    {"description": "fields to set", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.UpdateItemRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.successPayload"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "summary": "Delete one document",
                "parameters": [{"type": "string", "description": "document id", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.successPayload"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        }
    },
    "definitions": {
        "handler.CreateItemRequest": {
            "type": "object",
            "required": ["name"],
            "properties": {
                "name": {"type": "string", "maxLength": 120},
                "description": {"type": "string", "maxLength": 1000},
                "quantity": {"type": "integer", "minimum": 0},
                "tags": {"type": "array", "maxItems": 20, "items": {"type": "string"}}
            }
        },
        "handler.UpdateItemRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string", "maxLength": 120},
                "description": {"type": "string", "maxLength": 1000},
                "quantity": {"type": "integer", "minimum": 0},
                "tags": {"type": "array", "maxItems": 20, "items": {"type": "string"}}
            }
        },
        "handler.successPayload": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "status": {"type": "string", "example": "success"},
                "data": {}
            }
        },
        "handler.errorPayload": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "status": {"type": "string", "example": "error"},
                "data": {"type": "array", "items": {"$ref": "#/definitions/errs.FieldError"}},
                "request_id": {"type": "string"}
            }
        },
        "errs.FieldError": {
            "type": "object",
            "properties": {
                "field": {"type": "string"},
                "error": {"type": "string"}
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
	Title:            "CRUD API",
	Description:      "Generic document CRUD over MongoDB or PostgreSQL JSONB.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
