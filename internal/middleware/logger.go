package middleware

import (
	"fmt"
	"log"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"photoshare/internal/pkg/response"
)

// ErrorLogger logs 5xx responses and errors attached with c.Error, and turns
// panics into a 500 envelope. Lines carry the route pattern instead of the raw
// path, plus the id of the image, comment or tag the route addresses.
func ErrorLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		defer func() {
			if recovered := recover(); recovered != nil {
				response.Error(c, http.StatusInternalServerError, "INTERNAL", "Internal error")
				c.Abort()
				logRequestError(c, start, "panic", fmt.Sprint(recovered), debug.Stack())
				return
			}

			if len(c.Errors) == 0 {
				if c.Writer.Status() >= http.StatusInternalServerError {
					logRequestError(c, start, "http_error", http.StatusText(c.Writer.Status()), nil)
				}
				return
			}

			for _, err := range c.Errors {
				logRequestError(c, start, fmt.Sprintf("%v", err.Type), err.Error(), nil)
				if err.Meta != nil {
					log.Printf("request_error_meta request_id=%s meta=%+v", requestID(c), err.Meta)
				}
			}
		}()

		c.Next()
	}
}

func logRequestError(c *gin.Context, start time.Time, errType string, message string, stack []byte) {
	fields := []string{
		"type=" + errType,
		fmt.Sprintf("status=%d", c.Writer.Status()),
		"method=" + c.Request.Method,
		"route=" + route(c),
	}
	fields = append(fields, resourceFields(c)...)
	if id := c.GetInt64("user_id"); id != 0 {
		fields = append(fields, fmt.Sprintf("user_id=%d", id), "role="+c.GetString("role"))
	}
	if rid := requestID(c); rid != "" {
		fields = append(fields, "request_id="+rid)
	}
	fields = append(fields,
		"client_ip="+c.ClientIP(),
		"latency="+time.Since(start).String(),
		fmt.Sprintf("error=%q", message),
	)
	if len(stack) > 0 {
		fields = append(fields, "stack="+string(stack))
	}
	log.Println("request_error " + strings.Join(fields, " "))
}

// route is the matched pattern, or "unmatched" for 404s from the router.
func route(c *gin.Context) string {
	if p := c.FullPath(); p != "" {
		return p
	}
	return "unmatched"
}

// resourceFields names the :id parameter after the collection before it, so
// /images/:id/transform/:effect logs image_id and effect.
func resourceFields(c *gin.Context) []string {
	var out []string
	segments := strings.Split(c.FullPath(), "/")
	for i, seg := range segments {
		if !strings.HasPrefix(seg, ":") {
			continue
		}
		name := seg[1:]
		if name == "token" {
			continue
		}
		key := name
		if name == "id" && i > 0 {
			key = strings.TrimSuffix(segments[i-1], "s") + "_id"
		}
		out = append(out, key+"="+c.Param(name))
	}
	return out
}

func requestID(c *gin.Context) string {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = c.GetHeader("X-Request-Id")
	}
	return requestID
}
