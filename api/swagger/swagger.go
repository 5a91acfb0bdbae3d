package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Department Portal API",
        "description": "Verified submission and content relay backend for the campus departments site",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": [
        "http",
        "https"
    ],
    "tags": [
        {"name": "Verification", "description": "Email OTP verification sessions"},
        {"name": "Submissions", "description": "Verified project, research, journal, form and contact intake"},
        {"name": "Content", "description": "Cached CMS content relay"}
    ],
    "paths": {
        "/submissions/otp/request": {
            "post": {
                "tags": ["Verification"],
                "summary": "Start an email verification session",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RequestOTPRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "429": {"description": "Resend cooldown active"}
                }
            }
        },
        "/submissions/otp/verify": {
            "post": {
                "tags": ["Verification"],
                "summary": "Verify the emailed code",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/VerifyOTPRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Wrong code"},
                    "410": {"description": "Code expired"},
                    "429": {"description": "Attempt cap reached"}
                }
            }
        },
        "/submissions/otp/resend": {
            "post": {
                "tags": ["Verification"],
                "summary": "Resend the code under a fresh session id",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ResendOTPRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "429": {"description": "Resend cooldown active"}
                }
            }
        },
        "/submissions/verification/status": {
            "get": {
                "tags": ["Verification"],
                "summary": "Report whether a fresh verification exists",
                "parameters": [
                    {"name": "email", "in": "query", "required": true, "type": "string"},
                    {"name": "purpose", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/submissions/project": {
            "post": {
                "tags": ["Submissions"],
                "summary": "Submit a student project",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "title", "in": "formData", "required": true, "type": "string"},
                    {"name": "members", "in": "formData", "required": true, "type": "string"},
                    {"name": "otp_session", "in": "formData", "required": true, "type": "string"},
                    {"name": "thumbnail", "in": "formData", "type": "file"},
                    {"name": "report_file", "in": "formData", "type": "file"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Session not verified"}
                }
            }
        },
        "/submissions/research": {
            "post": {
                "tags": ["Submissions"],
                "summary": "Submit a research entry",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ResearchSubmissionRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/submissions/journal": {
            "post": {
                "tags": ["Submissions"],
                "summary": "Submit a journal article",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/JournalSubmissionRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/submissions/form": {
            "post": {
                "tags": ["Submissions"],
                "summary": "Submit a registration form response",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/FormSubmissionRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/submissions/contact": {
            "post": {
                "tags": ["Submissions"],
                "summary": "Send a verified contact message",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ContactRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/content/alumni": {
            "get": {
                "tags": ["Content"],
                "summary": "List alumni grouped by graduation year and program",
                "parameters": [
                    {"name": "year", "in": "query", "type": "integer"},
                    {"name": "program", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/content/programs/{id}/subjects": {
            "get": {
                "tags": ["Content"],
                "summary": "List a program's subjects grouped by semester",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/forms/{slug}": {
            "get": {
                "tags": ["Content"],
                "summary": "Fetch a registration form definition",
                "parameters": [
                    {"name": "slug", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "RequestOTPRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "full_name": {"type": "string"},
                "purpose": {"type": "string"}
            },
            "required": ["email", "purpose"]
        },
        "VerifyOTPRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "otp_code": {"type": "string"},
                "session_id": {"type": "string"},
                "purpose": {"type": "string"}
            },
            "required": ["email", "otp_code", "session_id", "purpose"]
        },
        "ResendOTPRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "session_id": {"type": "string"},
                "purpose": {"type": "string"}
            },
            "required": ["email", "session_id", "purpose"]
        },
        "ResearchSubmissionRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "abstract": {"type": "string"},
                "research_type": {"type": "string"},
                "participants": {"type": "array", "items": {"type": "object"}},
                "otp_session": {"type": "string"}
            },
            "required": ["title", "abstract", "research_type", "participants", "otp_session"]
        },
        "JournalSubmissionRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "genre": {"type": "string"},
                "abstract": {"type": "string"},
                "authors": {"type": "array", "items": {"type": "object"}},
                "otp_session": {"type": "string"}
            },
            "required": ["title", "genre", "abstract", "authors", "otp_session"]
        },
        "FormSubmissionRequest": {
            "type": "object",
            "properties": {
                "form_slug": {"type": "string"},
                "responses": {"type": "object"},
                "submitted_by_name": {"type": "string"},
                "submitted_by_email": {"type": "string"},
                "otp_session": {"type": "string"}
            },
            "required": ["form_slug", "responses", "submitted_by_name", "submitted_by_email", "otp_session"]
        },
        "ContactRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "subject": {"type": "string"},
                "message": {"type": "string"},
                "otp_session": {"type": "string"}
            },
            "required": ["name", "email", "subject", "message", "otp_session"]
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
                "detail": {"type": "string"},
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
