// Package docs registers the Swagger document served at /swagger.
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
        "/api/v1/logs": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Filter logs by date (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD') or by a relative 'since' window. A date-only 'to' covers the whole day.",
                "produces": ["application/json"],
                "tags": ["logs"],
                "summary": "List logs",
                "parameters": [
                    {"type": "string", "example": "2025-08-01", "description": "Start of range", "name": "from", "in": "query"},
                    {"type": "string", "example": "2025-08-31", "description": "End of range. Date-only treated as end of day.", "name": "to", "in": "query"},
                    {"type": "string", "example": "1h", "description": "Relative start as a Go duration, excludes 'from'", "name": "since", "in": "query"},
                    {"enum": ["ADJUST", "COOLING", "HEATING", "SYNCING", "PRESS", "ERROR", "TELEMETRY"], "type": "string", "description": "Event type", "name": "type", "in": "query"},
                    {"type": "integer", "example": 50, "description": "Keep only the newest N events", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "count, events", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "401": {"description": "Unauthorized", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/v1/samples": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Newest samples, oldest first. limit=0 or missing returns the whole history.",
                "produces": ["application/json"],
                "tags": ["thermostat"],
                "summary": "Chart samples",
                "parameters": [
                    {"type": "integer", "example": 100, "description": "Maximum number of samples", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "count, samples", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "401": {"description": "Unauthorized", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/v1/telemetry/download": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["thermostat"],
                "summary": "Download telemetry dataset",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.TelemetryPoint"}}},
                    "401": {"description": "Unauthorized", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/v1/thermostat/adjust": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Applies a signed change and pauses the telemetry replay for one step. \"temperature\" is the confirmed new value; \"state\" is the last reconciled state and catches up on the next tick.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["thermostat"],
                "summary": "Adjust thermostat manually",
                "parameters": [
                    {"description": "Signed change", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.ChangeRequest"}}
                ],
                "responses": {
                    "200": {"description": "status, temperature, state", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "401": {"description": "Unauthorized", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "502": {"description": "Bad Gateway", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/v1/thermostat/press": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "description": "Applies the button's step. \"temperature\" is the confirmed new value; \"state\" is the last reconciled state and catches up on the next tick.",
                "tags": ["thermostat"],
                "summary": "Press a thermostat button",
                "parameters": [
                    {"description": "Control", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.PressRequest"}}
                ],
                "responses": {
                    "200": {"description": "status, control, temperature, state", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "401": {"description": "Unauthorized", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "502": {"description": "Bad Gateway", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/v1/thermostat/reconcile": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Runs one control-loop tick immediately.",
                "produces": ["application/json"],
                "tags": ["thermostat"],
                "summary": "Reconcile now",
                "responses": {
                    "200": {"description": "status, state", "schema": {"type": "object", "additionalProperties": true}},
                    "401": {"description": "Unauthorized", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "409": {"description": "Conflict", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "502": {"description": "Bad Gateway", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/v1/thermostat/state": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Last reconciled temperatures with the rendered info panel.",
                "produces": ["application/json"],
                "tags": ["thermostat"],
                "summary": "Get thermostat state",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.Snapshot"}},
                    "401": {"description": "Unauthorized", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/auth/sign-in": {
            "post": {
                "description": "Returns a bearer token for /api/v1.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Sign in",
                "parameters": [
                    {"description": "Credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.authCredentials"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "401": {"description": "Unauthorized", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/auth/sign-up": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Sign up",
                "parameters": [
                    {"description": "Credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.authCredentials"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "integer"}}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "409": {"description": "Conflict", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/get-outside-temperature": {
            "get": {
                "produces": ["application/json"],
                "tags": ["backend"],
                "summary": "Get outside temperature",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.OutsideTemperatureResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/get-telemetry": {
            "get": {
                "produces": ["application/json"],
                "tags": ["backend"],
                "summary": "Get telemetry dataset",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.TelemetryPoint"}}}
                }
            }
        },
        "/get-temperature": {
            "get": {
                "produces": ["application/json"],
                "tags": ["backend"],
                "summary": "Get thermostat temperature",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.TemperatureResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/update-temperature": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["backend"],
                "summary": "Change thermostat temperature",
                "parameters": [
                    {"description": "Signed change", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.ChangeRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.TemperatureResponse"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/ws": {
            "get": {
                "description": "WebSocket. Sends a \"state\" snapshot on connect and every interval, plus \"temperatures\", \"alert\", \"press\" and \"sample\" pushes as they happen.",
                "tags": ["system"],
                "summary": "Dashboard stream",
                "parameters": [
                    {"type": "string", "example": "2s", "description": "Snapshot interval as a Go duration, max 10s", "name": "interval", "in": "query"},
                    {"type": "integer", "example": 2000, "description": "Snapshot interval in milliseconds, max 10000", "name": "interval_ms", "in": "query"}
                ],
                "responses": {
                    "101": {"description": "Switching Protocols"}
                }
            }
        }
    },
    "definitions": {
        "display.Panel": {
            "type": "object",
            "properties": {
                "background_color": {"type": "string"},
                "critical": {"type": "boolean"},
                "info_text": {"type": "string"},
                "light_color": {"type": "string"},
                "outside_text": {"type": "string"},
                "warning": {"type": "string"}
            }
        },
        "handlers.ChangeRequest": {
            "type": "object",
            "properties": {
                "change": {"description": "Signed temperature change in Celsius", "type": "number", "example": 0.5}
            }
        },
        "handlers.OutsideTemperatureResponse": {
            "type": "object",
            "properties": {
                "outsideTemperature": {"type": "number", "example": 17.3}
            }
        },
        "handlers.PressRequest": {
            "type": "object",
            "properties": {
                "control": {"description": "Control to press. Allowed: increase, decrease", "type": "string", "example": "increase"}
            }
        },
        "handlers.TemperatureResponse": {
            "type": "object",
            "properties": {
                "temperature": {"type": "number", "example": 22.5}
            }
        },
        "handlers.authCredentials": {
            "type": "object",
            "required": ["password", "username"],
            "properties": {
                "password": {"type": "string"},
                "username": {"type": "string"}
            }
        },
        "models.TelemetryPoint": {
            "type": "object",
            "properties": {
                "temperature": {"type": "number"}
            }
        },
        "service.Snapshot": {
            "type": "object",
            "properties": {
                "current_temp_c": {"type": "number"},
                "outside_temp_c": {"type": "number"},
                "panel": {"$ref": "#/definitions/display.Panel"},
                "stale": {"type": "boolean"},
                "updated_at": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Thermostat Dashboard API",
	Description:      "Simulated thermostat backend, reconciliation loop and dashboard feeds.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
