package config

// Base URL of the submission API. It is fixed when the binary is built:
//
//	go build -ldflags "-X github.com/hydrosmart/reporter/internal/config.Endpoint=http://localhost:8000" ./cmd/hydrosmart
var Endpoint = "https://powerguard-backend.onrender.com"

// Where cmd/mock_backend listens by default
const LocalEndpoint = "http://localhost:8000"
