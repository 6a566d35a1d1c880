// Package swagger registers the OpenAPI document served under /swagger/.
package swagger

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
        "/file/{key}": {
            "delete": {
                "description": "Delete the object at key. The key is URL-encoded and may contain slashes. Deleting a missing key succeeds.",
                "produces": ["application/json"],
                "tags": ["files"],
                "summary": "Delete a file",
                "parameters": [
                    {"type": "string", "description": "Object key", "name": "key", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/file.deleteResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.ErrorBody"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/response.ErrorBody"}}
                }
            }
        },
        "/files": {
            "get": {
                "description": "List up to 1000 stored files. Directory markers are excluded.",
                "produces": ["application/json"],
                "tags": ["files"],
                "summary": "List files",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/file.File"}}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/response.ErrorBody"}}
                }
            }
        },
        "/posts": {
            "get": {
                "description": "Read every post document, newest first. Not paginated.",
                "produces": ["application/json"],
                "tags": ["posts"],
                "summary": "List posts",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/post.Post"}}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/response.ErrorBody"}}
                }
            },
            "post": {
                "description": "Upload the image, then write the post record. The two writes are not atomic.",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["posts"],
                "summary": "Create a post",
                "parameters": [
                    {"type": "file", "description": "Post image", "name": "image", "in": "formData", "required": true},
                    {"type": "string", "description": "Title", "name": "title", "in": "formData", "required": true},
                    {"type": "string", "description": "Content", "name": "content", "in": "formData", "required": true}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/post.Post"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.ErrorBody"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/response.ErrorBody"}}
                }
            }
        },
        "/posts/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["posts"],
                "summary": "Get a post",
                "parameters": [
                    {"type": "string", "description": "Post id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/post.Post"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.ErrorBody"}}
                }
            },
            "delete": {
                "description": "Delete the post document. Deleting a missing post succeeds.",
                "produces": ["application/json"],
                "tags": ["posts"],
                "summary": "Delete a post",
                "parameters": [
                    {"type": "string", "description": "Post id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/post.deletedResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/response.ErrorBody"}}
                }
            }
        },
        "/test": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Backend self-test",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/server.testResponse"}}
                }
            }
        },
        "/upload": {
            "post": {
                "description": "Store a file (max 10 MiB) under uploads/{YYYY}/{MM}/{DD}/{epochMillis}_{name}.",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["files"],
                "summary": "Upload a file",
                "parameters": [
                    {"type": "file", "description": "File to upload", "name": "file", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/file.uploadResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.ErrorBody"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/response.ErrorBody"}}
                }
            }
        }
    },
    "definitions": {
        "file.File": {
            "type": "object",
            "properties": {
                "key": {"type": "string", "example": "uploads/2026/10/16/1760600000000_report.pdf"},
                "url": {"type": "string"},
                "lastModified": {"type": "string"},
                "size": {"type": "integer", "example": 52341},
                "storageClass": {"type": "string", "example": "STANDARD"}
            }
        },
        "file.deleteResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean", "example": true},
                "message": {"type": "string", "example": "File deleted successfully"},
                "key": {"type": "string"}
            }
        },
        "file.uploadResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string", "example": "File uploaded successfully"},
                "fileUrl": {"type": "string"},
                "key": {"type": "string"},
                "size": {"type": "integer", "example": 52341},
                "lastModified": {"type": "string"}
            }
        },
        "post.Post": {
            "type": "object",
            "properties": {
                "id": {"type": "string", "example": "3f1c2a9e-7b1d-4c55-9d0e-2f8a4b6c1d2e"},
                "title": {"type": "string", "example": "Hello"},
                "content": {"type": "string", "example": "First post"},
                "imageUrl": {"type": "string"},
                "createdAt": {"type": "string", "example": "2026-10-16T09:13:20.123Z"}
            }
        },
        "post.deletedResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string", "example": "Post deleted"}
            }
        },
        "response.ErrorBody": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "error": {"type": "string"},
                "details": {"type": "string"}
            }
        },
        "server.testResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "example": "success"},
                "message": {"type": "string", "example": "Backend API is working!"},
                "timestamp": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Optional HS256 JWT. Format: **Bearer {token}**",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "bucketdrop API",
	Description:      "File uploads and image blog posts on top of an S3-compatible object store.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
