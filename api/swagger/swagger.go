package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Room Allocation API",
        "description": "Autonomous room allocation engine for semester course sections",
        "version": "0.1.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Allocations", "description": "Allocation runs, results and decision log"}
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
                    "200": {"description": "Ready"},
                    "503": {"description": "Database unreachable"}
                }
            }
        },
        "/api/v1/allocations/runs": {
            "post": {
                "tags": ["Allocations"],
                "summary": "Trigger an allocation run for a semester",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/RunRequest"}
                    }
                ],
                "responses": {
                    "202": {"description": "Run accepted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid payload", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Run already in progress for this semester", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/allocations/runs/{id}": {
            "get": {
                "tags": ["Allocations"],
                "summary": "Get allocation run status and result",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Run result", "schema": {"$ref": "#/definitions/RunResult"}},
                    "404": {"description": "Run not found or expired", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/allocations/runs/{id}/decisions": {
            "get": {
                "tags": ["Allocations"],
                "summary": "List decision log entries for a run",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "Decision log entries", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "412": {"description": "Decision log persistence disabled", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/allocations": {
            "get": {
                "tags": ["Allocations"],
                "summary": "List committed allocations for a semester",
                "parameters": [
                    {"name": "semesterId", "in": "query", "required": true, "type": "string"},
                    {"name": "roomId", "in": "query", "type": "string"},
                    {"name": "demandId", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "Allocations", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Missing semesterId", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "RunRequest": {
            "type": "object",
            "required": ["semesterId"],
            "properties": {
                "semesterId": {"type": "string"}
            }
        },
        "RunResult": {
            "type": "object",
            "properties": {
                "run_id": {"type": "string"},
                "semester_id": {"type": "string"},
                "status": {"type": "string", "enum": ["PENDING", "RUNNING", "COMPLETED", "FAILED"]},
                "total_processed": {"type": "integer"},
                "total_allocated": {"type": "integer"},
                "total_skipped": {"type": "integer"},
                "phase1": {"$ref": "#/definitions/PhaseResult"},
                "phase2": {"$ref": "#/definitions/PhaseResult"},
                "phase3": {"$ref": "#/definitions/PhaseResult"},
                "skips": {"type": "array", "items": {"$ref": "#/definitions/SkipDetail"}},
                "error": {"type": "string"},
                "started_at": {"type": "string", "format": "date-time"},
                "finished_at": {"type": "string", "format": "date-time"}
            }
        },
        "PhaseResult": {
            "type": "object",
            "properties": {
                "processed": {"type": "integer"},
                "allocated": {"type": "integer"},
                "conflicts": {"type": "integer"},
                "skipped": {"type": "integer"}
            }
        },
        "SkipDetail": {
            "type": "object",
            "properties": {
                "demand_id": {"type": "string"},
                "phase": {"type": "integer"},
                "reason": {"type": "string"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
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
                "pagination": {"$ref": "#/definitions/Pagination"},
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
