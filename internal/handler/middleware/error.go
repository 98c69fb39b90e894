package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"vintour/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

// ErrorHandler is the last-resort response writer: handlers answer their
// own errors, so anything that reaches here unwritten becomes a 500.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}
		if len(c.Errors) > 0 {
			last := c.Errors.Last()
			slog.Error("unhandled request error",
				"path", c.Request.URL.Path,
				"error", last.Error(),
				"stack", strings.Join(errs.ExtractStackLines(last.Err, 8), "\n"))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		if status := c.Writer.Status(); status != http.StatusOK {
			c.Status(status)
			c.Writer.WriteHeaderNow()
		}
	}
}

func CustomRecovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				slog.Error("recovered from panic", "error", err, "path", c.Request.URL.Path)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
				c.Abort()
			}
		}()
		c.Next()
	}
}
