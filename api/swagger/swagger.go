package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Vagtplan API",
        "description": "Vacation and weekend shift planning service",
        "version": "0.1.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Employees", "description": "Roster management"},
        {"name": "Absences", "description": "Vacation and shift-free periods"},
        {"name": "Shifts", "description": "Shift records and open slots"},
        {"name": "Planning", "description": "Board, conflicts, warnings and fair-share distribution"}
    ],
    "paths": {
        "/employees": {
            "get": {
                "tags": ["Employees"],
                "summary": "List employees",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "active", "in": "query", "type": "boolean"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Employees"],
                "summary": "Create employee",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateEmployeeRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/employees/{id}": {
            "get": {
                "tags": ["Employees"],
                "summary": "Get employee",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Employees"],
                "summary": "Update employee",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateEmployeeRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Employees"],
                "summary": "Deactivate employee",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Deactivated"}
                }
            }
        },
        "/absences": {
            "get": {
                "tags": ["Absences"],
                "summary": "List absences",
                "parameters": [
                    {"name": "emp_id", "in": "query", "type": "string"},
                    {"name": "type", "in": "query", "type": "string", "enum": ["vacation", "shift_free"]},
                    {"name": "start", "in": "query", "type": "string"},
                    {"name": "end", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Absences"],
                "summary": "Register absence",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateAbsenceRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/absences/{id}": {
            "get": {
                "tags": ["Absences"],
                "summary": "Get absence",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Absences"],
                "summary": "Delete absence",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Deleted"}
                }
            }
        },
        "/shifts": {
            "get": {
                "tags": ["Shifts"],
                "summary": "List shifts",
                "parameters": [
                    {"name": "emp_id", "in": "query", "type": "string"},
                    {"name": "assigned", "in": "query", "type": "boolean"},
                    {"name": "start", "in": "query", "type": "string"},
                    {"name": "end", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Shifts"],
                "summary": "Create shift or open slot",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateShiftRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Employee already works that day", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/shifts/{id}": {
            "get": {
                "tags": ["Shifts"],
                "summary": "Get shift",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Shifts"],
                "summary": "Delete shift",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Deleted"}
                }
            }
        },
        "/shifts/{id}/assign": {
            "post": {
                "tags": ["Shifts"],
                "summary": "Assign an open slot",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AssignShiftRequest"}}
                ],
                "responses": {
                    "200": {"description": "Assigned", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Slot already filled", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/planning/board": {
            "get": {
                "tags": ["Planning"],
                "summary": "Planning board for a period",
                "parameters": [
                    {"name": "start", "in": "query", "required": true, "type": "string"},
                    {"name": "end", "in": "query", "required": true, "type": "string"},
                    {"name": "max_away", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/planning/conflicts": {
            "get": {
                "tags": ["Planning"],
                "summary": "Shift/absence conflicts in a period",
                "parameters": [
                    {"name": "start", "in": "query", "required": true, "type": "string"},
                    {"name": "end", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/planning/warnings": {
            "get": {
                "tags": ["Planning"],
                "summary": "Over-capacity vacation days in a period",
                "parameters": [
                    {"name": "start", "in": "query", "required": true, "type": "string"},
                    {"name": "end", "in": "query", "required": true, "type": "string"},
                    {"name": "max_away", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/planning/availability": {
            "get": {
                "tags": ["Planning"],
                "summary": "Employees free to work a given day",
                "parameters": [
                    {"name": "date", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/planning/loads": {
            "get": {
                "tags": ["Planning"],
                "summary": "Shift counts per employee in a period",
                "parameters": [
                    {"name": "start", "in": "query", "required": true, "type": "string"},
                    {"name": "end", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/planning/distribute": {
            "post": {
                "tags": ["Planning"],
                "summary": "Run the fair-share planner",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/DistributeRequest"}}
                ],
                "responses": {
                    "200": {"description": "Preview or applied", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "202": {"description": "Queued", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "CreateEmployeeRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"}
            },
            "required": ["name"]
        },
        "UpdateEmployeeRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "active": {"type": "boolean"}
            },
            "required": ["name"]
        },
        "CreateAbsenceRequest": {
            "type": "object",
            "properties": {
                "emp_id": {"type": "string"},
                "type": {"type": "string", "enum": ["vacation", "shift_free"]},
                "start_date": {"type": "string", "example": "2024-07-01"},
                "end_date": {"type": "string", "example": "2024-07-05"}
            },
            "required": ["emp_id", "type", "start_date", "end_date"]
        },
        "CreateShiftRequest": {
            "type": "object",
            "properties": {
                "emp_id": {"type": "string"},
                "date": {"type": "string", "example": "2024-07-06"},
                "type": {"type": "string", "example": "weekend"}
            },
            "required": ["date", "type"]
        },
        "AssignShiftRequest": {
            "type": "object",
            "properties": {
                "emp_id": {"type": "string"}
            },
            "required": ["emp_id"]
        },
        "DistributeRequest": {
            "type": "object",
            "properties": {
                "start": {"type": "string", "example": "2024-07-01"},
                "end": {"type": "string", "example": "2024-07-31"},
                "apply": {"type": "boolean"},
                "async": {"type": "boolean"}
            },
            "required": ["start", "end"]
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
