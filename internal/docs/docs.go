// Package docs registers the OpenAPI document served under /swagger/.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/": {
            "get": {
                "produces": ["application/json"],
                "tags": ["api"],
                "summary": "Liveness message",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.MessageResponse"}}
                }
            }
        },
        "/api/predict": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["api"],
                "summary": "Classify a single candidate",
                "parameters": [
                    {"description": "Feature record", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/types.PredictRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.PredictResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/api/upload": {
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["api"],
                "summary": "Score an uploaded CSV dataset",
                "parameters": [
                    {"type": "file", "description": "CSV dataset", "name": "file", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.UploadResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "413": {"description": "Request Entity Too Large", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/api/retrain": {
            "post": {
                "produces": ["application/json"],
                "tags": ["api"],
                "summary": "Trigger mock retraining",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.RetrainResponse"}}
                }
            }
        },
        "/api/stats": {
            "get": {
                "produces": ["application/json"],
                "tags": ["api"],
                "summary": "Current model statistics",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.StatsResponse"}}
                }
            }
        },
        "/api/config": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["api"],
                "summary": "Update training hyperparameters",
                "parameters": [
                    {"description": "Fields to change", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/types.ConfigUpdate"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.ConfigResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/api/data": {
            "get": {
                "produces": ["application/json"],
                "tags": ["api"],
                "summary": "Sample dataset rows",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.DataResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/predict": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["classifier"],
                "summary": "Classify a list of feature rows",
                "parameters": [
                    {"description": "Rows keyed by feature name", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/types.RowsRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.RowsResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "types.ConfigResponse": {
            "type": "object",
            "properties": {
                "current_config": {"$ref": "#/definitions/types.Hyperparams"},
                "message": {"type": "string", "example": "Hyperparameters updated"}
            }
        },
        "types.ConfigUpdate": {
            "type": "object",
            "properties": {
                "learning_rate": {"type": "number", "example": 0.05},
                "max_depth": {"type": "integer", "example": 8},
                "n_estimators": {"type": "integer", "example": 200}
            }
        },
        "types.DataResponse": {
            "type": "object",
            "properties": {
                "columns": {"type": "array", "items": {"type": "string"}},
                "data": {"type": "array", "items": {"type": "object", "additionalProperties": true}}
            }
        },
        "types.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "integer", "example": 400},
                "error": {"type": "string", "example": "invalid JSON body"}
            }
        },
        "types.FeatureRecord": {
            "type": "object",
            "properties": {
                "orbital_period": {"type": "number"},
                "planet_radius": {"type": "number"},
                "stellar_radius": {"type": "number"},
                "stellar_temp": {"type": "number"},
                "transit_duration": {"type": "number"}
            }
        },
        "types.Hyperparams": {
            "type": "object",
            "properties": {
                "learning_rate": {"type": "number", "example": 0.01},
                "max_depth": {"type": "integer", "example": 5},
                "n_estimators": {"type": "integer", "example": 100}
            }
        },
        "types.MessageResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string", "example": "Welcome to ExoVision API"}
            }
        },
        "types.ModelStats": {
            "type": "object",
            "properties": {
                "accuracy": {"type": "number", "example": 0.91},
                "precision": {"type": "number", "example": 0.89},
                "recall": {"type": "number", "example": 0.9},
                "version": {"type": "string", "example": "v1.0"}
            }
        },
        "types.PredictRequest": {
            "type": "object",
            "required": ["orbital_period", "transit_duration", "planet_radius", "stellar_temp", "stellar_radius"],
            "properties": {
                "orbital_period": {"type": "number", "example": 365},
                "planet_radius": {"type": "number", "example": 1},
                "stellar_radius": {"type": "number", "example": 1},
                "stellar_temp": {"type": "number", "example": 5800},
                "transit_duration": {"type": "number", "example": 0.5}
            }
        },
        "types.PredictResponse": {
            "type": "object",
            "properties": {
                "input": {"$ref": "#/definitions/types.FeatureRecord"},
                "prediction": {"type": "string", "example": "Confirmed Exoplanet"}
            }
        },
        "types.RetrainResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string", "example": "Model retraining triggered successfully"},
                "new_stats": {"$ref": "#/definitions/types.ModelStats"}
            }
        },
        "types.RowResult": {
            "type": "object",
            "properties": {
                "prediction": {"type": "integer", "example": 1},
                "probability": {"type": "number", "example": 0.82}
            }
        },
        "types.RowsRequest": {
            "type": "object",
            "properties": {
                "rows": {"type": "array", "items": {"type": "object", "additionalProperties": true}}
            }
        },
        "types.RowsResponse": {
            "type": "object",
            "properties": {
                "results": {"type": "array", "items": {"$ref": "#/definitions/types.RowResult"}}
            }
        },
        "types.StatsResponse": {
            "type": "object",
            "properties": {
                "model_stats": {"$ref": "#/definitions/types.ModelStats"}
            }
        },
        "types.UploadResponse": {
            "type": "object",
            "properties": {
                "filename": {"type": "string", "example": "koi.csv"},
                "message": {"type": "string", "example": "Dataset uploaded successfully"},
                "rows": {"type": "integer", "example": 120}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "ExoVision API",
	Description:      "Exoplanet disposition classifier: single-record and CSV batch prediction plus mock training controls.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
