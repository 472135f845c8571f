// Package docs holds the Swagger description of the inventory service API.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "API Support",
            "email": "support@example.com"
        },
        "license": {
            "name": "MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/test": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Liveness probe",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.MessageResponse"}}
                }
            }
        },
        "/api/inventory": {
            "get": {
                "description": "All inventory items, newest first",
                "produces": ["application/json"],
                "tags": ["Inventory"],
                "summary": "List inventory items",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.InventoryItem"}}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            },
            "post": {
                "description": "Adds a perishable item. Status always starts as available; location defaults to \"Default Location\".",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Inventory"],
                "summary": "Create inventory item",
                "parameters": [
                    {
                        "description": "Item data",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/http.CreateItemRequest"}
                    }
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.InventoryItem"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/api/inventory/near-expiry": {
            "get": {
                "description": "Available items whose expiry date falls within the next days (default 3)",
                "produces": ["application/json"],
                "tags": ["Inventory"],
                "summary": "List items close to expiry",
                "parameters": [
                    {"type": "integer", "description": "Window in days", "name": "days", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.InventoryItem"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/api/donations/available": {
            "get": {
                "description": "Items flagged near-expiry by the sweep",
                "produces": ["application/json"],
                "tags": ["Donations"],
                "summary": "List donation candidates",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.InventoryItem"}}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/api/donations/donate/{id}": {
            "post": {
                "description": "Sets the item's status to donated",
                "produces": ["application/json"],
                "tags": ["Donations"],
                "summary": "Donate an item",
                "parameters": [
                    {"type": "string", "description": "Item ID (UUID)", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.InventoryItem"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/api/analytics/stats": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Analytics"],
                "summary": "Inventory stats",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.InventoryStats"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/api/analytics/category-distribution": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Analytics"],
                "summary": "Items per category",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.CategoryCount"}}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.MessageResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "domain.InventoryItem": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "productName": {"type": "string"},
                "category": {"type": "string", "enum": ["fruits", "vegetables", "dairy", "bakery", "meat", "other"]},
                "quantity": {"type": "integer"},
                "expiryDate": {"type": "string"},
                "price": {"type": "number"},
                "discountedPrice": {"type": "number"},
                "status": {"type": "string", "enum": ["available", "near-expiry", "expired", "donated"]},
                "location": {"type": "string"},
                "createdAt": {"type": "string"},
                "updatedAt": {"type": "string"}
            }
        },
        "domain.InventoryStats": {
            "type": "object",
            "properties": {
                "totalItems": {"type": "integer"},
                "nearExpiry": {"type": "integer"},
                "donated": {"type": "integer"}
            }
        },
        "domain.CategoryCount": {
            "type": "object",
            "properties": {
                "category": {"type": "string"},
                "count": {"type": "integer"}
            }
        },
        "http.CreateItemRequest": {
            "type": "object",
            "required": ["productName", "category", "quantity", "expiryDate", "price"],
            "properties": {
                "productName": {"type": "string"},
                "category": {"type": "string"},
                "quantity": {"type": "number"},
                "expiryDate": {"type": "string"},
                "price": {"type": "number"},
                "location": {"type": "string"}
            }
        },
        "http.ErrorResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "error": {"type": "string"}
            }
        },
        "http.MessageResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:5000",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Food Waste Inventory API",
	Description:      "Perishable inventory with near-expiry discounts and donations",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
