package config

import "errors"

// Configuration validation errors
var (
	ErrInvalidTransport           = errors.New("transport must be 'stdio' or 'http'")
	ErrInvalidPort                = errors.New("port must be between 1 and 65535")
	ErrInvalidLogLevel            = errors.New("log level must be one of debug, info, warn, error")
	ErrInvalidAngleUnit           = errors.New("angle unit must be 'radians' or 'degrees'")
	ErrInvalidMaxExpressionLength = errors.New("max expression length must be at least 1")
	ErrInvalidHistoryLimit        = errors.New("history limit must be at least 1")
	ErrInvalidRateLimit           = errors.New("requests per minute must be at least 1")
	ErrInvalidRequestSizeLimit    = errors.New("request size limit must be a positive size such as '1MB'")
	ErrConfigFileNotFound         = errors.New("configuration file not found")
	ErrInvalidConfigFormat        = errors.New("invalid configuration file format")
)
