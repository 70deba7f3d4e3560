package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/ThinkInAIXYZ/go-mcp/protocol"
	"github.com/gin-gonic/gin"

	"github.com/nutriplan/backend/internal/tools"
)

// ToolsHandler exposes the assistant's tools as MCP tool calls so a client
// can run one without going through the model.
type ToolsHandler struct {
	registry *tools.Registry
}

func NewToolsHandler(registry *tools.Registry) *ToolsHandler {
	return &ToolsHandler{registry: registry}
}

// ListTools returns the name, description and input schema of every tool.
func (h *ToolsHandler) ListTools(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tools": h.registry.Definitions()})
}

// CallTool decodes a protocol.CallToolRequest and runs the named tool.
func (h *ToolsHandler) CallTool(c *gin.Context) {
	var request protocol.CallToolRequest
	if err := json.NewDecoder(c.Request.Body).Decode(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON", "details": err.Error()})
		return
	}

	if _, ok := h.registry.Get(request.Name); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Unknown tool: %s", request.Name)})
		return
	}

	args, err := json.Marshal(request.Arguments)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid arguments", "details": err.Error()})
		return
	}

	output, err := h.registry.Call(c.Request.Context(), request.Name, string(args))
	if err != nil {
		if errors.Is(err, tools.ErrEmptyInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.Printf("[ToolsHandler] %s failed: %v", request.Name, err)
		output = "Error: " + err.Error()
	} else {
		output = tools.ExtractText(output)
	}

	c.JSON(http.StatusOK, &protocol.CallToolResult{
		Content: []protocol.Content{
			protocol.TextContent{
				Type: "text",
				Text: output,
			},
		},
	})
}
