package middleware

import (
	"net/http"
	"time"

	"github.com/supplydesk/desk/pkg/requestid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger returns a round tripper that logs every call to the remote service.
// Successful calls are logged at debug level so the polling loop does not flood the output.
func Logger(next http.RoundTripper) http.RoundTripper {
	return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
		start := time.Now()
		fields := []zapcore.Field{
			zap.String("request_id", requestid.FromContext(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("query", r.URL.RawQuery),
		}

		resp, err := next.RoundTrip(r)

		fields = append(fields, zap.Duration("latency", time.Since(start)))
		logger := zap.S().Named("http").Desugar()
		msg := "Request completed"
		switch {
		case err != nil:
			logger.Warn("Request failed", append(fields, zap.Error(err))...)
		case resp.StatusCode >= 500:
			logger.Error(msg, append(fields, zap.Int("status", resp.StatusCode))...)
		case resp.StatusCode >= 400:
			logger.Warn(msg, append(fields, zap.Int("status", resp.StatusCode))...)
		default:
			logger.Debug(msg, append(fields, zap.Int("status", resp.StatusCode))...)
		}
		return resp, err
	})
}
