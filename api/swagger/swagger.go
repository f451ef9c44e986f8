package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Complaint Portal",
        "description": "Portal gateway for submitting and tracking complaints",
        "version": "0.1.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Shell", "description": "Navigation and session indicator"},
        {"name": "Session", "description": "Token and derived user attributes"},
        {"name": "Complaints", "description": "List, detail and create views"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"}
                }
            }
        },
        "/portal/nav": {
            "get": {
                "tags": ["Shell"],
                "summary": "Shell navigation",
                "responses": {
                    "200": {"description": "Navigation entries and session indicator", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/portal/session": {
            "get": {
                "tags": ["Session"],
                "summary": "Current session",
                "responses": {
                    "200": {"description": "Session with token redacted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Session"],
                "summary": "Sign out",
                "responses": {
                    "204": {"description": "Cleared"}
                }
            }
        },
        "/portal/session/token": {
            "put": {
                "tags": ["Session"],
                "summary": "Store the upstream bearer token",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/TokenRequest"}}
                ],
                "responses": {
                    "204": {"description": "Stored; derivation kicked off"},
                    "400": {"description": "Invalid payload", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/portal/session/identifier": {
            "put": {
                "tags": ["Session"],
                "summary": "Store the user-entered identifier",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/IdentifierRequest"}}
                ],
                "responses": {
                    "204": {"description": "Stored"},
                    "400": {"description": "Invalid payload", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/portal/complaints": {
            "get": {
                "tags": ["Complaints"],
                "summary": "Complaints list view",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "highlight", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Filtered, sorted view of the accumulated list", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Complaints"],
                "summary": "Submit a new complaint",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateComplaintRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created; list view will show the banner", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Sign in again", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "429": {"description": "Rate limited", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/portal/complaints/refresh": {
            "post": {
                "tags": ["Complaints"],
                "summary": "Refresh the complaints list",
                "responses": {
                    "204": {"description": "Page 1 fetched, accumulated list replaced"},
                    "401": {"description": "Sign in again", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/portal/complaints/more": {
            "post": {
                "tags": ["Complaints"],
                "summary": "Load the next complaints page",
                "responses": {
                    "204": {"description": "Next page appended"},
                    "401": {"description": "Sign in again", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/portal/complaints/{id}": {
            "get": {
                "tags": ["Complaints"],
                "summary": "Complaint detail view",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "Complaint and history; sections fail independently", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid id", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "TokenRequest": {
            "type": "object",
            "properties": {
                "token": {"type": "string"}
            }
        },
        "IdentifierRequest": {
            "type": "object",
            "properties": {
                "identifier": {"type": "string"}
            }
        },
        "CreateComplaintRequest": {
            "type": "object",
            "properties": {
                "text": {"type": "string"},
                "category": {"type": "string"}
            },
            "required": ["text"]
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
