package config

// Application info
const (
	AppName    = "NBA Dashboard"
	AppVersion = "1.0.0"
)
