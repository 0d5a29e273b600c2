package logging

import (
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

const (
	traceparentHeader  = "traceparent"
	cloudTraceHeader   = "X-Cloud-Trace-Context"
	sampledTraceFlag   = "01"
	cloudTraceResource = "projects/%s/traces/%s"
)

// W3C Trace Context: {version}-{trace-id}-{parent-id}-{trace-flags}
var traceparentRe = regexp.MustCompile(`^([0-9a-fA-F]{2})-([0-9a-fA-F]{32})-([0-9a-fA-F]{16})-([0-9a-fA-F]{2})$`)

// Legacy Cloud Trace header: TRACE_ID/SPAN_ID;o=OPTIONS
var cloudTraceRe = regexp.MustCompile(`^([0-9a-fA-F]{32})(?:/([0-9]+))?(?:;o=([01]))?$`)

// span is the trace position of an incoming request.
type span struct {
	traceID string
	spanID  string
	sampled bool
}

// parseSpan reads traceparent first and falls back to X-Cloud-Trace-Context.
func parseSpan(traceparent, cloudTrace string) (span, bool) {
	if m := traceparentRe.FindStringSubmatch(strings.TrimSpace(traceparent)); m != nil {
		return span{traceID: strings.ToLower(m[2]), spanID: m[3], sampled: m[4] == sampledTraceFlag}, true
	}
	if m := cloudTraceRe.FindStringSubmatch(strings.TrimSpace(cloudTrace)); m != nil {
		return span{traceID: strings.ToLower(m[1]), spanID: m[2], sampled: m[3] == "1"}, true
	}
	return span{}, false
}

func (s span) resource(projectID string) string {
	return fmt.Sprintf(cloudTraceResource, projectID, s.traceID)
}

// fields returns the Cloud Logging trace correlation fields.
func (s span) fields(projectID string) []zap.Field {
	fields := []zap.Field{
		zap.String("logging.googleapis.com/trace", s.resource(projectID)),
		zap.Bool("logging.googleapis.com/trace_sampled", s.sampled),
	}
	if s.spanID != "" {
		fields = append(fields, zap.String("logging.googleapis.com/spanId", s.spanID))
	}
	return fields
}
