package config

const (
	DefaultGatewayURL       = "http://localhost:5001"
	DefaultGatewayTimeoutMS = 60000
	DefaultServerAddr       = ":5001"

	DefaultContentTokenLimit = 3000
)
