package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"time"

	"github.com/TriStrac/scarrow-server/internal/services"
	"github.com/gin-gonic/gin"
)

// ActivityLogger snapshots the sanitized request body before the handler
// runs and, once the response is written with a status below 400 by an
// authenticated user, enqueues an audit record. Enqueueing never blocks
// the response; a full buffer or failed write loses the record.
func ActivityLogger(recorder *services.ActivityRecorder, activityClass, activityType string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		body := snapshotBody(c)

		c.Next()

		status := c.Writer.Status()
		if status >= 400 {
			return
		}
		userID := GetUserID(c)
		if userID == "" {
			return
		}

		params := make(map[string]string, len(c.Params))
		for _, p := range c.Params {
			params[p.Key] = p.Value
		}

		recorder.Enqueue(services.ActivityRecord{
			UserID:        userID,
			DeviceID:      bodyDeviceID(body),
			ActivityClass: activityClass,
			ActivityType:  activityType,
			Info: services.ActivityInfo{
				Method:     c.Request.Method,
				Route:      c.Request.URL.Path,
				Status:     status,
				DurationMs: time.Since(start).Milliseconds(),
				Params:     params,
				Query:      c.Request.URL.Query(),
				Body:       body,
			},
		})
	}
}

// snapshotBody reads the JSON body, masks password fields, and restores the
// reader so the handler can bind it as usual.
func snapshotBody(c *gin.Context) map[string]interface{} {
	if c.Request.Body == nil {
		return nil
	}
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(raw))
	if len(raw) == 0 {
		return nil
	}

	var body map[string]interface{}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil
	}
	for key := range body {
		if strings.Contains(strings.ToLower(key), "password") {
			body[key] = "[HIDDEN]"
		}
	}
	return body
}

func bodyDeviceID(body map[string]interface{}) *string {
	for _, key := range []string{"deviceId", "DeviceID"} {
		if v, ok := body[key].(string); ok && v != "" {
			return &v
		}
	}
	return nil
}
