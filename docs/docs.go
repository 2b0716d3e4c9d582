// Package docs registers the OpenAPI description served under /swagger.
// Regenerate with: swag init -g cmd/api/main.go
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
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Liveness probe",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/health/ready": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Readiness probe",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.readinessResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handler.readinessResponse"}}
                }
            }
        },
        "/motorcycles": {
            "get": {
                "produces": ["application/json"],
                "tags": ["motorcycles"],
                "summary": "List motorcycles",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.listMotorcyclesResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["motorcycles"],
                "summary": "Register a motorcycle",
                "parameters": [
                    {"description": "Motorcycle details", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.createMotorcycleRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.motorcycleResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/motorcycles/track": {
            "get": {
                "produces": ["application/json"],
                "tags": ["tracking"],
                "summary": "List plates with an active feed",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.activeTrackingResponse"}}
                }
            }
        },
        "/motorcycles/track/{plate}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["tracking"],
                "summary": "Inspect an active feed",
                "parameters": [
                    {"type": "string", "description": "License plate", "name": "plate", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.trackingStatusResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/domain.TrackingResult"}}
                }
            },
            "post": {
                "produces": ["application/json"],
                "tags": ["tracking"],
                "summary": "Start the live position feed for a motorcycle",
                "parameters": [
                    {"type": "string", "description": "License plate", "name": "plate", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.TrackingResult"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/domain.TrackingResult"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/domain.TrackingResult"}}
                }
            }
        },
        "/motorcycles/stop/{plate}": {
            "post": {
                "produces": ["application/json"],
                "tags": ["tracking"],
                "summary": "Stop the live position feed for a motorcycle",
                "parameters": [
                    {"type": "string", "description": "License plate", "name": "plate", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.TrackingResult"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/domain.TrackingResult"}}
                }
            }
        },
        "/motorcycles/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["motorcycles"],
                "summary": "Get a motorcycle by id",
                "parameters": [
                    {"type": "string", "description": "Motorcycle id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.motorcycleResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["motorcycles"],
                "summary": "Update a motorcycle",
                "parameters": [
                    {"type": "string", "description": "Motorcycle id", "name": "id", "in": "path", "required": true},
                    {"description": "Fields to change", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.updateMotorcycleRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.motorcycleResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            },
            "delete": {
                "tags": ["motorcycles"],
                "summary": "Delete a motorcycle",
                "parameters": [
                    {"type": "string", "description": "Motorcycle id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/ws/motorcycles/{plate}": {
            "get": {
                "tags": ["tracking"],
                "summary": "Subscribe to live positions of a motorcycle",
                "parameters": [
                    {"type": "string", "description": "License plate", "name": "plate", "in": "path", "required": true}
                ],
                "responses": {
                    "101": {"description": "Switching Protocols"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "domain.TrackingResult": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "enum": ["ok", "error"]},
                "message": {"type": "string"}
            }
        },
        "handler.coordinateResponse": {
            "type": "object",
            "properties": {
                "lat": {"type": "number"},
                "lng": {"type": "number"}
            }
        },
        "handler.errorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"}
            }
        },
        "handler.createMotorcycleRequest": {
            "type": "object",
            "required": ["brand", "license_plate", "year"],
            "properties": {
                "license_plate": {"type": "string", "maxLength": 15, "minLength": 3},
                "brand": {"type": "string", "maxLength": 50},
                "year": {"type": "integer", "maximum": 2100, "minimum": 1900},
                "status": {"type": "string", "enum": ["available", "unavailable", "in-maintenance"]}
            }
        },
        "handler.updateMotorcycleRequest": {
            "type": "object",
            "properties": {
                "license_plate": {"type": "string", "maxLength": 15, "minLength": 3},
                "brand": {"type": "string", "maxLength": 50, "minLength": 1},
                "year": {"type": "integer", "maximum": 2100, "minimum": 1900},
                "status": {"type": "string", "enum": ["available", "unavailable", "in-maintenance"]}
            }
        },
        "handler.motorcycleResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "license_plate": {"type": "string"},
                "brand": {"type": "string"},
                "year": {"type": "integer"},
                "status": {"type": "string"},
                "created_at": {"type": "string"}
            }
        },
        "handler.listMotorcyclesResponse": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/handler.motorcycleResponse"}},
                "total": {"type": "integer"}
            }
        },
        "handler.trackingStatusResponse": {
            "type": "object",
            "properties": {
                "plate": {"type": "string"},
                "active": {"type": "boolean"},
                "cursor": {"type": "integer"},
                "emitted": {"type": "integer"},
                "skipped": {"type": "integer"},
                "last_emitted": {"$ref": "#/definitions/handler.coordinateResponse"},
                "last_known": {"$ref": "#/definitions/handler.coordinateResponse"},
                "started_at": {"type": "string"}
            }
        },
        "handler.activeTrackingResponse": {
            "type": "object",
            "properties": {
                "plates": {"type": "array", "items": {"type": "string"}},
                "total": {"type": "integer"}
            }
        },
        "handler.dependencyStatus": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "error": {"type": "string"}
            }
        },
        "handler.readinessResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "dependencies": {"type": "object", "additionalProperties": {"$ref": "#/definitions/handler.dependencyStatus"}}
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
	Title:            "Delivery Tracking API",
	Description:      "Motorcycle registry and simulated live position feed.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
