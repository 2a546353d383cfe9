package main

// General API documentation for swaggo. Run `make swagger-gen` to regenerate internal/docs.
//
// @title           ExoVision API
// @version         1.0
// @description     Exoplanet disposition classifier: single-record and CSV batch prediction plus mock training controls.
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
