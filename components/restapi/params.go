package restapi

import (
	"github.com/iotaledger/hive.go/app"
)

// ParametersRestAPI contains the definition of the parameters used by REST API.
type ParametersRestAPI struct {
	// Enabled defines whether the REST API plugin is enabled.
	Enabled bool `default:"true" usage:"whether the REST API plugin is enabled"`
	// the bind address on which the REST API listens on
	BindAddress string `default:"0.0.0.0:8085" usage:"the bind address on which the REST API listens on"`
	// UseGZIP defines whether to use the gzip middleware to compress HTTP responses
	UseGZIP bool `default:"true" usage:"use the gzip middleware to compress HTTP responses"`
	// whether the debug logging for requests should be enabled
	DebugRequestLoggerEnabled bool `default:"false" usage:"whether the debug logging for requests should be enabled"`

	Limits struct {
		// the maximum number of characters that the body of an API call may contain
		MaxBodyLength string `default:"1M" usage:"the maximum number of characters that the body of an API call may contain"`
		// the maximum size in bytes of a document hashed by the content-hash route
		MaxContentBytes int64 `default:"33554432" usage:"the maximum size in bytes of a document hashed by the content-hash route"`
	}

	RateLimiting struct {
		// Enabled defines whether rate limiting is enabled
		Enabled bool `default:"true" usage:"whether rate limiting is enabled"`
		// MaxRequestsPerSecond defines the maximum requests per second from a single IP
		MaxRequestsPerSecond float64 `default:"10" usage:"maximum requests per second from a single IP"`
		// Burst defines the maximum burst size for rate limiting
		Burst int `default:"20" usage:"maximum burst size for rate limiting"`
	} `name:"rateLimiting"`
}

var ParamsRestAPI = &ParametersRestAPI{}

var params = &app.ComponentParams{
	Params: map[string]any{
		"restAPI": ParamsRestAPI,
	},
	Masked: []string{},
}
