// Package docs registra el documento OpenAPI que sirve /swagger/*.
// Se regenera con: swag init -g cmd/api/main.go -o internal/docs
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
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "paths": {
        "/api/users/register": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Register a new user",
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Bad Request"},
                    "409": {"description": "Conflict"}
                }
            }
        },
        "/api/users/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Login",
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/api/pets/new-pet": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["pets"],
                "summary": "Register a pet for the current user",
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Bad Request"}
                }
            }
        },
        "/api/slots/add-slot": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["slots"],
                "summary": "Create a vet slot",
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Bad Request"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/api/appointments/new-appointment": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["appointments"],
                "summary": "Book an appointment on a slot",
                "responses": {
                    "201": {"description": "Created"},
                    "404": {"description": "Not Found"},
                    "409": {"description": "Slot already booked"}
                }
            }
        },
        "/api/appointments/cancel-appointment/{id}": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "consumes": ["text/plain"],
                "produces": ["text/plain"],
                "tags": ["appointments"],
                "summary": "Cancel an appointment",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"type": "boolean", "name": "notifyVet", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "403": {"description": "Forbidden"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/api/quarantines/new": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["quarantines"],
                "summary": "Put a pet in quarantine",
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Bad Request"}
                }
            }
        },
        "/api/clinics": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["clinics"],
                "summary": "Create a clinic",
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Bad Request"},
                    "403": {"description": "Forbidden"}
                }
            }
        },
        "/api/diagnosis/save": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["diagnosis"],
                "summary": "Add a diagnosis to an anamnesis",
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Bad Request"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/api/treatments/save": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["treatments"],
                "summary": "Prescribe a treatment",
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Bad Request"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/api/treatments/complete/{id}": {
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["treatments"],
                "summary": "Mark a treatment as completed",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/api/notifications/mine": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["notifications"],
                "summary": "Notifications of the current user",
                "responses": {
                    "200": {"description": "OK"}
                }
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
	Title:            "VetCare API",
	Description:      "Backend de la clínica veterinaria: usuarios, clínicas, mascotas, agenda, historia clínica y cuarentenas.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
