// Package docs registers the OpenAPI document of the HTTP API with swag.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "produces": ["application/json"],
                "summary": "Dependency status",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Health"}}}
            }
        },
        "/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "summary": "Issue a host token",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/LoginResponse"}},
                    "401": {"description": "bad credentials", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/reports": {
            "get": {
                "produces": ["application/json"],
                "summary": "List the newest reports",
                "parameters": [{"in": "query", "name": "limit", "type": "integer", "minimum": 1, "maximum": 5}],
                "responses": {"200": {"description": "OK", "schema": {"type": "object", "properties": {"reports": {"type": "array", "items": {"$ref": "#/definitions/ReportSummary"}}}}}}
            },
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "summary": "Upload a CSV file and create a report",
                "parameters": [{"in": "formData", "name": "file", "type": "file", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "properties": {"id": {"type": "string"}}}},
                    "400": {"description": "no_file, not_csv, empty_csv, parse_failed or no_data", "schema": {"$ref": "#/definitions/Error"}},
                    "413": {"description": "too_large", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/reports/{id}": {
            "get": {
                "produces": ["application/json"],
                "summary": "Get one report",
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "properties": {"report": {"$ref": "#/definitions/Report"}}}},
                    "400": {"description": "invalid_id", "schema": {"$ref": "#/definitions/Error"}},
                    "404": {"description": "not_found", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/reports/{id}/insights.md": {
            "get": {
                "produces": ["text/markdown"],
                "summary": "Download the insights narrative",
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/reports/{id}/columns/{column}/chart.png": {
            "get": {
                "produces": ["image/png"],
                "summary": "Bar chart of a column's top values",
                "parameters": [
                    {"in": "path", "name": "id", "type": "string", "required": true},
                    {"in": "path", "name": "column", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "not_found, column_not_found or no_values", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/reports/{id}/followups": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "summary": "Ask a question about a report",
                "parameters": [
                    {"in": "path", "name": "id", "type": "string", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"type": "object", "properties": {"question": {"type": "string"}}}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "properties": {"followup": {"$ref": "#/definitions/Followup"}}}},
                    "400": {"description": "empty_question or invalid_id", "schema": {"$ref": "#/definitions/Error"}},
                    "404": {"description": "not_found", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/ws/reports/{id}": {
            "get": {
                "summary": "WebSocket stream of followup_added events",
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {"101": {"description": "Switching Protocols"}}
            }
        }
    },
    "definitions": {
        "Error": {"type": "object", "properties": {"error": {"type": "string"}, "details": {"type": "array", "items": {"type": "object"}}}},
        "LoginRequest": {"type": "object", "properties": {"username": {"type": "string"}, "password": {"type": "string"}}},
        "LoginResponse": {"type": "object", "properties": {"token": {"type": "string"}, "hostId": {"type": "string"}, "expiresAt": {"type": "integer"}}},
        "Health": {"type": "object"},
        "ReportSummary": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "fileName": {"type": "string"},
                "rowCount": {"type": "integer"},
                "columnCount": {"type": "integer"},
                "createdAt": {"type": "string", "format": "date-time"}
            }
        },
        "Followup": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "question": {"type": "string"},
                "answer": {"type": "string"},
                "createdAt": {"type": "string", "format": "date-time"}
            }
        },
        "Report": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "fileName": {"type": "string"},
                "rowCount": {"type": "integer"},
                "columnCount": {"type": "integer"},
                "columns": {"type": "array", "items": {"type": "string"}},
                "sampleRows": {"type": "array", "items": {"type": "object"}},
                "profile": {"type": "object"},
                "insightsMd": {"type": "string"},
                "followups": {"type": "array", "items": {"$ref": "#/definitions/Followup"}},
                "createdAt": {"type": "string", "format": "date-time"},
                "updatedAt": {"type": "string", "format": "date-time"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "CSV Insights API",
	Description:      "Upload CSV files, get a profile and a narrative, ask follow-up questions.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
