// A mock upstream inference service that answers chat completion
// requests with interleaved reasoning content, in both streamed and
// single-shot form. Useful for poking the proxy without real upstream
// credentials.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"
)

func main() {
	port := flag.String("port", "8001", "Port to run the mock upstream on")
	flag.Parse()

	r := gin.Default()

	r.POST("/v1/chat/completions", func(c *gin.Context) {
		var req openai.ChatCompletionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		id := "chatcmpl-" + uuid.NewString()
		created := time.Now().Unix()

		if req.Stream {
			writeStream(c, id, created, req.Model)
			return
		}

		c.JSON(http.StatusOK, openai.ChatCompletionResponse{
			ID:      id,
			Object:  "chat.completion",
			Created: created,
			Model:   req.Model,
			Choices: []openai.ChatCompletionChoice{
				{
					Index: 0,
					Message: openai.ChatCompletionMessage{
						Role:             openai.ChatMessageRoleAssistant,
						Content:          "This is a mock answer",
						ReasoningContent: "The user wants a canned reply, so any answer will do",
					},
					FinishReason: openai.FinishReasonStop,
				},
			},
			Usage: openai.Usage{PromptTokens: 7, CompletionTokens: 9, TotalTokens: 16},
		})
	})

	// Start server
	if err := r.Run(":" + *port); err != nil {
		log.Fatal(err)
	}
}

func writeStream(c *gin.Context, id string, created int64, model string) {
	header := c.Writer.Header()
	header.Set("Content-Type", "text/event-stream")
	header.Set("Cache-Control", "no-cache")
	c.Writer.WriteHeader(http.StatusOK)

	chunks := []openai.ChatCompletionStreamResponse{
		{
			ID: id, Object: "chat.completion.chunk", Created: created, Model: model,
			Choices: []openai.ChatCompletionStreamChoice{
				{Delta: openai.ChatCompletionStreamChoiceDelta{Role: openai.ChatMessageRoleAssistant}},
			},
		},
		{
			ID: id, Object: "chat.completion.chunk", Created: created, Model: model,
			Choices: []openai.ChatCompletionStreamChoice{
				{Delta: openai.ChatCompletionStreamChoiceDelta{ReasoningContent: "Thinking about "}},
			},
		},
		{
			ID: id, Object: "chat.completion.chunk", Created: created, Model: model,
			Choices: []openai.ChatCompletionStreamChoice{
				{Delta: openai.ChatCompletionStreamChoiceDelta{ReasoningContent: "the mock answer"}},
			},
		},
		{
			ID: id, Object: "chat.completion.chunk", Created: created, Model: model,
			Choices: []openai.ChatCompletionStreamChoice{
				{Delta: openai.ChatCompletionStreamChoiceDelta{Content: "This is a mock answer"}},
			},
		},
		{
			ID: id, Object: "chat.completion.chunk", Created: created, Model: model,
			Choices: []openai.ChatCompletionStreamChoice{
				{Delta: openai.ChatCompletionStreamChoiceDelta{}, FinishReason: openai.FinishReasonStop},
			},
		},
	}

	for _, chunk := range chunks {
		data, err := json.Marshal(chunk)
		if err != nil {
			return
		}
		fmt.Fprintf(c.Writer, "data: %s\n\n", data)
		c.Writer.Flush()
	}
	fmt.Fprint(c.Writer, "data: [DONE]\n\n")
	c.Writer.Flush()
}
