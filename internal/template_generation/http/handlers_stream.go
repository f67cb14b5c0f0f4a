package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/domain"
)

const keepAliveInterval = 15 * time.Second

// StreamRunEvents streams run updates as Server-Sent Events until the run
// reaches a terminal status or the client goes away.
func (h *Handler) StreamRunEvents(c *gin.Context) {
	if h.runs == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "run tracking disabled"})
		return
	}
	runID := c.Param("id")
	ctx := c.Request.Context()

	// Subscribe before reading the snapshot so a transition published in
	// between is delivered on the channel instead of lost.
	sub := h.runs.Subscribe(ctx, runID)
	defer sub.Close()
	if _, err := sub.Receive(ctx); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to subscribe to run"})
		return
	}
	updates := sub.Channel()

	run, err := h.runs.Get(ctx, runID)
	if errors.Is(err, domain.ErrRunNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get run"})
		return
	}

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "streaming unsupported"})
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	initial, _ := json.Marshal(run)
	fmt.Fprintf(c.Writer, "event: initial\ndata: %s\n\n", initial)
	flusher.Flush()
	if run.Status.IsTerminal() {
		return
	}

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fmt.Fprint(c.Writer, ": keep-alive\n\n")
			flusher.Flush()
		case msg, ok := <-updates:
			if !ok {
				return
			}
			fmt.Fprintf(c.Writer, "event: update\ndata: %s\n\n", msg.Payload)
			flusher.Flush()

			var updated domain.GenerationRun
			if err := json.Unmarshal([]byte(msg.Payload), &updated); err == nil && updated.Status.IsTerminal() {
				return
			}
		}
	}
}
