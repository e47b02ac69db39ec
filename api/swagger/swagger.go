package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {"title": "SIAKAD API", "description": "Academic administration: KRS admission control and room scheduling", "version": "1.0.0"},
    "basePath": "/api/v1",
    "schemes": ["http"],
    "tags": [
        {"name": "KRS", "description": "Study plan enrollment with duplicate and credit-ceiling rules"},
        {"name": "Schedules", "description": "Room bookings kept free of overlaps"},
        {"name": "Rooms", "description": "Bookable rooms"},
        {"name": "Courses", "description": "Course catalog"},
        {"name": "Students", "description": "Student directory"},
        {"name": "Lecturers", "description": "Lecturer directory"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Liveness check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check (database, redis)",
                "responses": {
                    "200": {"description": "Ready"},
                    "503": {"description": "A dependency is unavailable"}
                }
            }
        },
        "/metrics": {
            "get": {
                "summary": "Prometheus metrics",
                "produces": ["text/plain"],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/krs": {
            "get": {
                "tags": ["KRS"],
                "summary": "List KRS entries",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "student_id", "in": "query", "type": "string"},
                    {"name": "semester", "in": "query", "type": "string"},
                    {"name": "year", "in": "query", "type": "integer"},
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    }
                }
            },
            "post": {
                "tags": ["KRS"],
                "summary": "Create KRS entry",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/CreateKRSRequest"}
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    },
                    "400": {
                        "description": "Validation failed or credit-load ceiling exceeded (CAPACITY_EXCEEDED)",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    },
                    "409": {
                        "description": "Duplicate enrollment",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    }
                }
            }
        },
        "/krs/{id}": {
            "get": {
                "tags": ["KRS"],
                "summary": "Get KRS entry",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    }
                }
            },
            "put": {
                "tags": ["KRS"],
                "summary": "Update KRS entry",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/UpdateKRSRequest"}
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    },
                    "400": {
                        "description": "Validation failed",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    },
                    "409": {
                        "description": "Duplicate enrollment",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    }
                }
            },
            "delete": {
                "tags": ["KRS"],
                "summary": "Delete KRS entry",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Deleted"},
                    "404": {
                        "description": "Not found",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    },
                    "409": {
                        "description": "Grades exist for this enrollment",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    }
                }
            }
        },
        "/krs/summary": {
            "get": {
                "tags": ["KRS"],
                "summary": "Credit load of a student for one term",
                "parameters": [
                    {"name": "student_id", "in": "query", "type": "string", "required": true},
                    {"name": "semester", "in": "query", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    },
                    "400": {
                        "description": "Validation failed",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    },
                    "404": {
                        "description": "Student not found",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    }
                }
            }
        },
        "/schedules": {
            "get": {
                "tags": ["Schedules"],
                "summary": "List schedules",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "room_id", "in": "query", "type": "string"},
                    {"name": "day", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "semester", "in": "query", "type": "integer"},
                    {"name": "academic_year", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    }
                }
            },
            "post": {
                "tags": ["Schedules"],
                "summary": "Create schedule",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/CreateScheduleRequest"}
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    },
                    "400": {
                        "description": "Validation failed",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    },
                    "409": {
                        "description": "Room inactive or already booked in this interval",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    }
                }
            }
        },
        "/schedules/{id}": {
            "get": {
                "tags": ["Schedules"],
                "summary": "Get schedule",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    }
                }
            },
            "put": {
                "tags": ["Schedules"],
                "summary": "Update schedule",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/UpdateScheduleRequest"}
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    },
                    "400": {
                        "description": "Validation failed",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    },
                    "409": {
                        "description": "Room inactive or already booked in this interval",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    }
                }
            },
            "delete": {
                "tags": ["Schedules"],
                "summary": "Delete schedule",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Deleted"},
                    "404": {
                        "description": "Not found",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    }
                }
            }
        },
        "/rooms": {
            "get": {
                "tags": ["Rooms"],
                "summary": "List rooms",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "type", "in": "query", "type": "string"},
                    {"name": "is_active", "in": "query", "type": "boolean"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    }
                }
            },
            "post": {
                "tags": ["Rooms"],
                "summary": "Create room",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/CreateRoomRequest"}
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    },
                    "400": {
                        "description": "Validation failed",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    },
                    "409": {
                        "description": "Room code already exists",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    }
                }
            }
        },
        "/rooms/{id}": {
            "get": {
                "tags": ["Rooms"],
                "summary": "Get room",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    }
                }
            },
            "put": {
                "tags": ["Rooms"],
                "summary": "Update room",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/UpdateRoomRequest"}
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    },
                    "400": {
                        "description": "Validation failed",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    },
                    "409": {
                        "description": "Room code already exists",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    }
                }
            },
            "delete": {
                "tags": ["Rooms"],
                "summary": "Delete room",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Deleted"},
                    "404": {
                        "description": "Not found",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    },
                    "409": {
                        "description": "Room has active schedules",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    }
                }
            }
        },
        "/courses": {
            "get": {
                "tags": ["Courses"],
                "summary": "List courses",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "semester", "in": "query", "type": "integer"},
                    {"name": "lecturer_id", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    }
                }
            },
            "post": {
                "tags": ["Courses"],
                "summary": "Create course",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/CreateCourseRequest"}
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    },
                    "400": {
                        "description": "Validation failed",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    },
                    "409": {
                        "description": "Course code already exists or credits frozen",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    }
                }
            }
        },
        "/courses/{id}": {
            "get": {
                "tags": ["Courses"],
                "summary": "Get course",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    }
                }
            },
            "put": {
                "tags": ["Courses"],
                "summary": "Update course",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/UpdateCourseRequest"}
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    },
                    "400": {
                        "description": "Validation failed",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    },
                    "409": {
                        "description": "Course code already exists or credits frozen",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    }
                }
            },
            "delete": {
                "tags": ["Courses"],
                "summary": "Delete course",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Deleted"},
                    "404": {
                        "description": "Not found",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    },
                    "409": {
                        "description": "Course has KRS entries or grades",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    }
                }
            }
        },
        "/students": {
            "get": {
                "tags": ["Students"],
                "summary": "List students",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "program", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    }
                }
            }
        },
        "/students/{id}": {
            "get": {
                "tags": ["Students"],
                "summary": "Get student",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    }
                }
            }
        },
        "/lecturers": {
            "get": {
                "tags": ["Lecturers"],
                "summary": "List lecturers",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "department", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    }
                }
            }
        },
        "/lecturers/{id}": {
            "get": {
                "tags": ["Lecturers"],
                "summary": "Get lecturer",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    }
                }
            }
        }
    },
    "definitions": {
        "CreateKRSRequest": {
            "type": "object",
            "properties": {
                "student_id": {"type": "string"},
                "course_id": {"type": "string"},
                "semester": {"type": "string"},
                "year": {"type": "integer"},
                "status": {
                    "type": "string",
                    "enum": ["PENDING", "APPROVED", "REJECTED"]
                }
            },
            "required": ["student_id", "course_id", "semester", "year"]
        },
        "UpdateKRSRequest": {
            "type": "object",
            "properties": {
                "student_id": {"type": "string"},
                "course_id": {"type": "string"},
                "semester": {"type": "string"},
                "year": {"type": "integer"},
                "status": {
                    "type": "string",
                    "enum": ["PENDING", "APPROVED", "REJECTED"]
                }
            }
        },
        "CreateScheduleRequest": {
            "type": "object",
            "properties": {
                "course_id": {"type": "string"},
                "lecturer_id": {"type": "string"},
                "room_id": {"type": "string"},
                "day": {
                    "type": "string",
                    "enum": ["MONDAY", "TUESDAY", "WEDNESDAY", "THURSDAY", "FRIDAY", "SATURDAY", "SUNDAY"]
                },
                "start_time": {"type": "string", "example": "08:00"},
                "end_time": {"type": "string", "example": "08:00"},
                "semester": {"type": "integer"},
                "academic_year": {"type": "string"},
                "status": {
                    "type": "string",
                    "enum": ["ACTIVE", "INACTIVE", "CANCELLED"]
                },
                "notes": {"type": "string"}
            },
            "required": ["course_id", "lecturer_id", "room_id", "day", "start_time", "end_time", "semester", "academic_year"]
        },
        "UpdateScheduleRequest": {
            "type": "object",
            "properties": {
                "course_id": {"type": "string"},
                "lecturer_id": {"type": "string"},
                "room_id": {"type": "string"},
                "day": {
                    "type": "string",
                    "enum": ["MONDAY", "TUESDAY", "WEDNESDAY", "THURSDAY", "FRIDAY", "SATURDAY", "SUNDAY"]
                },
                "start_time": {"type": "string", "example": "08:00"},
                "end_time": {"type": "string", "example": "08:00"},
                "semester": {"type": "integer"},
                "academic_year": {"type": "string"},
                "status": {
                    "type": "string",
                    "enum": ["ACTIVE", "INACTIVE", "CANCELLED"]
                },
                "notes": {"type": "string"}
            }
        },
        "CreateRoomRequest": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "name": {"type": "string"},
                "capacity": {"type": "integer"},
                "type": {"type": "string"},
                "location": {"type": "string"},
                "facilities": {"type": "string"},
                "is_active": {"type": "boolean"}
            },
            "required": ["code", "name", "capacity", "type", "location"]
        },
        "UpdateRoomRequest": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "name": {"type": "string"},
                "capacity": {"type": "integer"},
                "type": {"type": "string"},
                "location": {"type": "string"},
                "facilities": {"type": "string"},
                "is_active": {"type": "boolean"}
            }
        },
        "CreateCourseRequest": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "name": {"type": "string"},
                "credits": {"type": "integer"},
                "semester": {"type": "integer"},
                "description": {"type": "string"},
                "lecturer_id": {"type": "string"}
            },
            "required": ["code", "name", "credits", "semester", "lecturer_id"]
        },
        "UpdateCourseRequest": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "name": {"type": "string"},
                "credits": {"type": "integer"},
                "semester": {"type": "integer"},
                "description": {"type": "string"},
                "lecturer_id": {"type": "string"}
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
                "status": {"type": "integer"},
                "details": {"type": "object"}
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
