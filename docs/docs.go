// Package docs registra en swag la especificación OpenAPI que sirve
// /swagger/doc.json. Sigue las anotaciones de los handlers; al agregar o
// cambiar una ruta hay que tocar las dos cosas (o regenerar con
// swag init -g cmd/api/main.go).
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
        "/auth/login": {
            "post": {
                "summary": "Obtener token",
                "description": "Intercambia usuario y contraseña por un token Bearer.",
                "tags": [
                    "auth"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Credenciales",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/accounts.loginRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/accounts.loginResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/httpjson.ErrorResponse"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/httpjson.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/pet-types": {
            "get": {
                "summary": "Listar tipos de mascota",
                "description": "Devuelve todos los tipos con sus especies anidadas.",
                "tags": [
                    "taxonomy"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Solo en modo dev, ID de usuario para depuración",
                        "name": "X-Debug-User-ID",
                        "in": "header",
                        "required": false,
                        "type": "string"
                    },
                    {
                        "description": "Bearer token",
                        "name": "Authorization",
                        "in": "header",
                        "required": false,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/taxonomy.petTypeResponse"
                            }
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/httpjson.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/pet-types/{typeID}": {
            "get": {
                "summary": "Obtener un tipo de mascota",
                "tags": [
                    "taxonomy"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "ID del tipo",
                        "name": "typeID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/taxonomy.petTypeResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/httpjson.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/pet-types/{typeID}/species": {
            "get": {
                "summary": "Listar especies de un tipo",
                "description": "Sólo las especies del tipo indicado. Un tipo inexistente devuelve lista vacía.",
                "tags": [
                    "taxonomy"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "ID del tipo",
                        "name": "typeID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/taxonomy.speciesResponse"
                            }
                        }
                    }
                }
            }
        },
        "/pet-types/{typeID}/species/{speciesID}": {
            "get": {
                "summary": "Obtener una especie de un tipo",
                "tags": [
                    "taxonomy"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "ID del tipo",
                        "name": "typeID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "ID de la especie",
                        "name": "speciesID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/taxonomy.speciesResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/httpjson.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/pets": {
            "post": {
                "summary": "Crear mascota",
                "description": "Crea una mascota del usuario autenticado. Acepta JSON o multipart/form-data (foto en ` + "`" + `photo` + "`" + `).",
                "tags": [
                    "pets"
                ],
                "consumes": [
                    "application/json",
                    "multipart/form-data"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Solo en modo dev, ID de usuario para depuración",
                        "name": "X-Debug-User-ID",
                        "in": "header",
                        "required": false,
                        "type": "string"
                    },
                    {
                        "description": "Bearer token",
                        "name": "Authorization",
                        "in": "header",
                        "required": false,
                        "type": "string"
                    },
                    {
                        "description": "Datos de la mascota",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/pets.petRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/pets.View"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/httpjson.ErrorResponse"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/httpjson.ErrorResponse"
                        }
                    }
                }
            },
            "get": {
                "summary": "Listar mis mascotas",
                "tags": [
                    "pets"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Solo en modo dev, ID de usuario para depuración",
                        "name": "X-Debug-User-ID",
                        "in": "header",
                        "required": false,
                        "type": "string"
                    },
                    {
                        "description": "Bearer token",
                        "name": "Authorization",
                        "in": "header",
                        "required": false,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/pets.View"
                            }
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/httpjson.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/pets/{petID}": {
            "get": {
                "summary": "Obtener mascota",
                "description": "Una mascota ajena responde 404, igual que una inexistente.",
                "tags": [
                    "pets"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "ID de la mascota",
                        "name": "petID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/pets.View"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/httpjson.ErrorResponse"
                        }
                    }
                }
            },
            "put": {
                "summary": "Actualizar mascota",
                "description": "PUT exige name, birth_day, pet_type_id y pet_species_id; PATCH es parcial.",
                "tags": [
                    "pets"
                ],
                "consumes": [
                    "application/json",
                    "multipart/form-data"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "ID de la mascota",
                        "name": "petID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Campos a actualizar",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/pets.petRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/pets.View"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/httpjson.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/httpjson.ErrorResponse"
                        }
                    }
                }
            },
            "patch": {
                "summary": "Actualizar mascota",
                "description": "PUT exige name, birth_day, pet_type_id y pet_species_id; PATCH es parcial.",
                "tags": [
                    "pets"
                ],
                "consumes": [
                    "application/json",
                    "multipart/form-data"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "ID de la mascota",
                        "name": "petID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Campos a actualizar",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/pets.petRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/pets.View"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/httpjson.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/httpjson.ErrorResponse"
                        }
                    }
                }
            },
            "delete": {
                "summary": "Borrar mascota",
                "description": "Borra la mascota y todos sus registros.",
                "tags": [
                    "pets"
                ],
                "parameters": [
                    {
                        "description": "ID de la mascota",
                        "name": "petID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/httpjson.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/pets/{petID}/health-logs": {
            "get": {
                "summary": "Listar registros de salud",
                "description": "Más nuevo primero. Una mascota ajena devuelve lista vacía.",
                "tags": [
                    "health-logs"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Solo en modo dev, ID de usuario para depuración",
                        "name": "X-Debug-User-ID",
                        "in": "header",
                        "required": false,
                        "type": "string"
                    },
                    {
                        "description": "Bearer token",
                        "name": "Authorization",
                        "in": "header",
                        "required": false,
                        "type": "string"
                    },
                    {
                        "description": "ID de la mascota",
                        "name": "petID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/healthlogs.healthLogResponse"
                            }
                        }
                    }
                }
            },
            "post": {
                "summary": "Crear registro de salud",
                "description": "JSON o multipart/form-data; la foto va en el archivo ` + "`" + `photo_records` + "`" + `.",
                "tags": [
                    "health-logs"
                ],
                "consumes": [
                    "application/json",
                    "multipart/form-data"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "ID de la mascota",
                        "name": "petID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Datos del registro",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/healthlogs.healthLogRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/healthlogs.healthLogResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/httpjson.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "mascota inexistente o ajena",
                        "schema": {
                            "$ref": "#/definitions/httpjson.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/pets/{petID}/health-logs/{logID}": {
            "get": {
                "summary": "Obtener registro de salud",
                "tags": [
                    "health-logs"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "ID de la mascota",
                        "name": "petID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "ID del registro",
                        "name": "logID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/healthlogs.healthLogResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/httpjson.ErrorResponse"
                        }
                    }
                }
            },
            "put": {
                "summary": "Actualizar registro de salud",
                "description": "Permite cerrar y reabrir el caso (case_closed).",
                "tags": [
                    "health-logs"
                ],
                "consumes": [
                    "application/json",
                    "multipart/form-data"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "ID de la mascota",
                        "name": "petID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "ID del registro",
                        "name": "logID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Campos",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/healthlogs.healthLogRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/healthlogs.healthLogResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/httpjson.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/httpjson.ErrorResponse"
                        }
                    }
                }
            },
            "patch": {
                "summary": "Actualizar registro de salud",
                "description": "Permite cerrar y reabrir el caso (case_closed).",
                "tags": [
                    "health-logs"
                ],
                "consumes": [
                    "application/json",
                    "multipart/form-data"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "ID de la mascota",
                        "name": "petID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "ID del registro",
                        "name": "logID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Campos",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/healthlogs.healthLogRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/healthlogs.healthLogResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/httpjson.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/httpjson.ErrorResponse"
                        }
                    }
                }
            },
            "delete": {
                "summary": "Borrar registro de salud",
                "tags": [
                    "health-logs"
                ],
                "parameters": [
                    {
                        "description": "ID de la mascota",
                        "name": "petID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "ID del registro",
                        "name": "logID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/httpjson.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/pets/{petID}/injection-logs": {
            "get": {
                "summary": "Listar vacunas / desparasitaciones",
                "tags": [
                    "injection-logs"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Solo en modo dev, ID de usuario para depuración",
                        "name": "X-Debug-User-ID",
                        "in": "header",
                        "required": false,
                        "type": "string"
                    },
                    {
                        "description": "Bearer token",
                        "name": "Authorization",
                        "in": "header",
                        "required": false,
                        "type": "string"
                    },
                    {
                        "description": "ID de la mascota",
                        "name": "petID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/injectionlogs.injectionLogResponse"
                            }
                        }
                    }
                }
            },
            "post": {
                "summary": "Registrar vacuna / desparasitación",
                "tags": [
                    "injection-logs"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "ID de la mascota",
                        "name": "petID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Datos",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/injectionlogs.injectionLogRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/injectionlogs.injectionLogResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/httpjson.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "mascota inexistente o ajena",
                        "schema": {
                            "$ref": "#/definitions/httpjson.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/pets/{petID}/injection-logs/{logID}": {
            "get": {
                "summary": "Obtener vacuna / desparasitación",
                "tags": [
                    "injection-logs"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "ID de la mascota",
                        "name": "petID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "ID del registro",
                        "name": "logID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/injectionlogs.injectionLogResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/httpjson.ErrorResponse"
                        }
                    }
                }
            },
            "put": {
                "summary": "Actualizar vacuna / desparasitación",
                "tags": [
                    "injection-logs"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "ID de la mascota",
                        "name": "petID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "ID del registro",
                        "name": "logID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Campos",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/injectionlogs.injectionLogRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/injectionlogs.injectionLogResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/httpjson.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/httpjson.ErrorResponse"
                        }
                    }
                }
            },
            "patch": {
                "summary": "Actualizar vacuna / desparasitación",
                "tags": [
                    "injection-logs"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "ID de la mascota",
                        "name": "petID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "ID del registro",
                        "name": "logID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Campos",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/injectionlogs.injectionLogRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/injectionlogs.injectionLogResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/httpjson.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/httpjson.ErrorResponse"
                        }
                    }
                }
            },
            "delete": {
                "summary": "Borrar vacuna / desparasitación",
                "tags": [
                    "injection-logs"
                ],
                "parameters": [
                    {
                        "description": "ID de la mascota",
                        "name": "petID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "ID del registro",
                        "name": "logID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/httpjson.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/pets/{petID}/weight-logs": {
            "get": {
                "summary": "Listar registros de peso",
                "description": "Más reciente primero. Una mascota ajena devuelve lista vacía.",
                "tags": [
                    "weight-logs"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Solo en modo dev, ID de usuario para depuración",
                        "name": "X-Debug-User-ID",
                        "in": "header",
                        "required": false,
                        "type": "string"
                    },
                    {
                        "description": "Bearer token",
                        "name": "Authorization",
                        "in": "header",
                        "required": false,
                        "type": "string"
                    },
                    {
                        "description": "ID de la mascota",
                        "name": "petID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/weightlogs.weightLogResponse"
                            }
                        }
                    }
                }
            },
            "post": {
                "summary": "Registrar peso",
                "tags": [
                    "weight-logs"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "ID de la mascota",
                        "name": "petID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Peso en kg (máx. 2 decimales)",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/weightlogs.weightLogRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/weightlogs.weightLogResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/httpjson.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "mascota inexistente o ajena",
                        "schema": {
                            "$ref": "#/definitions/httpjson.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/pets/{petID}/weight-logs/{logID}": {
            "get": {
                "summary": "Obtener registro de peso",
                "tags": [
                    "weight-logs"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "ID de la mascota",
                        "name": "petID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "ID del registro",
                        "name": "logID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/weightlogs.weightLogResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/httpjson.ErrorResponse"
                        }
                    }
                }
            },
            "put": {
                "summary": "Actualizar registro de peso",
                "tags": [
                    "weight-logs"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "ID de la mascota",
                        "name": "petID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "ID del registro",
                        "name": "logID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Campos",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/weightlogs.weightLogRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/weightlogs.weightLogResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/httpjson.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/httpjson.ErrorResponse"
                        }
                    }
                }
            },
            "patch": {
                "summary": "Actualizar registro de peso",
                "tags": [
                    "weight-logs"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "ID de la mascota",
                        "name": "petID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "ID del registro",
                        "name": "logID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Campos",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/weightlogs.weightLogRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/weightlogs.weightLogResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/httpjson.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/httpjson.ErrorResponse"
                        }
                    }
                }
            },
            "delete": {
                "summary": "Borrar registro de peso",
                "tags": [
                    "weight-logs"
                ],
                "parameters": [
                    {
                        "description": "ID de la mascota",
                        "name": "petID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "ID del registro",
                        "name": "logID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/httpjson.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/profile": {
            "get": {
                "summary": "Mi perfil",
                "description": "Si el perfil no existe se crea vacío.",
                "tags": [
                    "profile"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Solo en modo dev, ID de usuario para depuración",
                        "name": "X-Debug-User-ID",
                        "in": "header",
                        "required": false,
                        "type": "string"
                    },
                    {
                        "description": "Bearer token",
                        "name": "Authorization",
                        "in": "header",
                        "required": false,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/profiles.profileResponse"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/httpjson.ErrorResponse"
                        }
                    }
                }
            },
            "put": {
                "summary": "Actualizar mi perfil",
                "description": "PUT exige owner_name; PATCH es parcial.",
                "tags": [
                    "profile"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Datos del dueño",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/profiles.profileRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/profiles.profileResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/httpjson.ErrorResponse"
                        }
                    }
                }
            },
            "patch": {
                "summary": "Actualizar mi perfil",
                "description": "PUT exige owner_name; PATCH es parcial.",
                "tags": [
                    "profile"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Datos del dueño",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/profiles.profileRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/profiles.profileResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/httpjson.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/species": {
            "get": {
                "summary": "Listar especies por tipo (query)",
                "description": "Sin ` + "`" + `pet_type` + "`" + ` devuelve lista vacía, nunca todas las especies.",
                "tags": [
                    "taxonomy"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "ID del tipo",
                        "name": "pet_type",
                        "in": "query",
                        "required": false,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/taxonomy.speciesResponse"
                            }
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "accounts.loginRequest": {
            "type": "object",
            "properties": {
                "username": {
                    "type": "string"
                },
                "password": {
                    "type": "string"
                }
            }
        },
        "accounts.loginResponse": {
            "type": "object",
            "properties": {
                "token": {
                    "type": "string"
                },
                "expires_at": {
                    "type": "string",
                    "format": "date-time"
                }
            }
        },
        "healthlogs.healthLogRequest": {
            "type": "object",
            "properties": {
                "topic": {
                    "type": "string"
                },
                "content": {
                    "type": "string"
                },
                "action": {
                    "type": "string",
                    "enum": [
                        "SEE_DOCTOR",
                        "OBSERVATE",
                        "NORMAL"
                    ]
                },
                "case_closed": {
                    "type": "boolean"
                }
            }
        },
        "healthlogs.healthLogResponse": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "topic": {
                    "type": "string"
                },
                "content": {
                    "type": "string"
                },
                "photo_records": {
                    "type": "string"
                },
                "action": {
                    "type": "string"
                },
                "action_display": {
                    "type": "string"
                },
                "case_closed": {
                    "type": "boolean"
                },
                "created_at": {
                    "type": "string",
                    "format": "date-time"
                }
            }
        },
        "httpjson.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {
                    "type": "string"
                },
                "message": {
                    "type": "string"
                },
                "fields": {
                    "type": "object",
                    "additionalProperties": {
                        "type": "array",
                        "items": {
                            "type": "string"
                        }
                    }
                }
            }
        },
        "injectionlogs.injectionLogRequest": {
            "type": "object",
            "properties": {
                "injection_type": {
                    "type": "string",
                    "example": "三合一"
                },
                "note": {
                    "type": "string"
                },
                "injection_date": {
                    "type": "string",
                    "example": "2024-01-01"
                }
            }
        },
        "injectionlogs.injectionLogResponse": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "injection_type": {
                    "type": "string"
                },
                "note": {
                    "type": "string"
                },
                "injection_date": {
                    "type": "string"
                },
                "created_at": {
                    "type": "string",
                    "format": "date-time"
                },
                "next_date": {
                    "type": "string"
                }
            }
        },
        "pets.LastWeightView": {
            "type": "object",
            "properties": {
                "weight_kg": {
                    "type": "number"
                },
                "recorded_at": {
                    "type": "string"
                }
            }
        },
        "pets.View": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "name": {
                    "type": "string"
                },
                "owner": {
                    "type": "string"
                },
                "age": {
                    "type": "integer"
                },
                "pet_type": {
                    "type": "string"
                },
                "pet_species": {
                    "type": "string"
                },
                "gender": {
                    "type": "string"
                },
                "gender_display": {
                    "type": "string"
                },
                "sterilised": {
                    "type": "boolean"
                },
                "sterilised_display": {
                    "type": "string"
                },
                "birth_day": {
                    "type": "string"
                },
                "photo": {
                    "type": "string"
                },
                "created_at": {
                    "type": "string",
                    "format": "date-time"
                },
                "updated_at": {
                    "type": "string",
                    "format": "date-time"
                },
                "memo": {
                    "type": "string"
                },
                "favorite_food": {
                    "type": "string"
                },
                "favorite_food_display": {
                    "type": "string"
                },
                "tracking_log_count": {
                    "type": "integer"
                },
                "next_injection_date": {
                    "type": "string"
                },
                "last_weight": {
                    "$ref": "#/definitions/pets.LastWeightView"
                }
            }
        },
        "pets.petRequest": {
            "type": "object",
            "properties": {
                "name": {
                    "type": "string"
                },
                "pet_type_id": {
                    "type": "string"
                },
                "pet_species_id": {
                    "type": "string"
                },
                "gender": {
                    "type": "string",
                    "enum": [
                        "M",
                        "F",
                        "UNK"
                    ]
                },
                "sterilised": {
                    "type": "boolean"
                },
                "birth_day": {
                    "type": "string"
                },
                "favorite_food": {
                    "type": "string",
                    "enum": [
                        "RC",
                        "HILLS",
                        "ORIJEN",
                        "NUTRAM",
                        "CATPOOL",
                        "NUTRIENCE"
                    ]
                },
                "memo": {
                    "type": "string"
                }
            }
        },
        "profiles.profileRequest": {
            "type": "object",
            "properties": {
                "owner_name": {
                    "type": "string"
                },
                "owner_address": {
                    "type": "string"
                }
            }
        },
        "profiles.profileResponse": {
            "type": "object",
            "properties": {
                "user": {
                    "type": "string"
                },
                "owner_name": {
                    "type": "string"
                },
                "owner_address": {
                    "type": "string"
                }
            }
        },
        "taxonomy.petTypeResponse": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "name": {
                    "type": "string"
                },
                "species": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/taxonomy.speciesResponse"
                    }
                }
            }
        },
        "taxonomy.speciesResponse": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "name": {
                    "type": "string"
                }
            }
        },
        "weightlogs.weightLogRequest": {
            "type": "object",
            "properties": {
                "weight_kg": {
                    "type": "string",
                    "example": "4.25"
                },
                "recorded_at": {
                    "type": "string",
                    "example": "2024-03-01"
                }
            }
        },
        "weightlogs.weightLogResponse": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "weight_kg": {
                    "type": "string"
                },
                "recorded_at": {
                    "type": "string"
                }
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
	Title:            "Pet Records API",
	Description:      "Registro de mascotas: peso, salud y vacunas por dueño.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
