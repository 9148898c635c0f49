package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"time"

	"studybuddy-be/internal/dto"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// envelope mirrors the success envelope returned by the API.
type envelope[T any] struct {
	Success bool   `json:"success"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// Drives a running server through login and a short tutoring conversation.
func main() {
	baseURL := flag.String("url", "http://localhost:8000/api", "API base URL")
	login := flag.String("user", "demo", "email or username")
	password := flag.String("password", "password123", "password")
	subject := flag.String("subject", "mathematics", "subject of the new session")
	flag.Parse()

	fmt.Println("=== StudyBuddy Simulation Client ===")

	auth, err := call[dto.TokenResponse](fiber.Post(*baseURL+"/auth/login"), "", &dto.LoginRequest{
		EmailOrUsername: *login,
		Password:        *password,
	})
	if err != nil {
		log.Fatalf("Login failed: %v", err)
	}
	fmt.Printf("Logged in as %s\n", auth.User.Username)

	questions := []string{
		"What is a derivative?",
		"Can you give me an example with x squared?",
	}

	var sessionID *uuid.UUID
	for _, q := range questions {
		fmt.Printf("\nUSER: %s\n", q)

		start := time.Now()
		res, err := call[dto.ChatResponse](fiber.Post(*baseURL+"/chat/message"), auth.AccessToken, &dto.SendMessageRequest{
			Content:   q,
			SessionId: sessionID,
			Subject:   subject,
		})
		if err != nil {
			log.Fatalf("Send failed: %v", err)
		}
		sessionID = &res.SessionId

		fmt.Printf("AI (%s, %v): %s\n", res.SessionTitle, time.Since(start).Round(time.Millisecond), res.AssistantMessage.Content)
	}

	history, err := call[[]dto.MessageResponse](fiber.Get(fmt.Sprintf("%s/chat/sessions/%s/messages", *baseURL, sessionID)), auth.AccessToken, nil)
	if err != nil {
		log.Fatalf("History failed: %v", err)
	}
	fmt.Printf("\nSession %s holds %d messages\n", sessionID, len(history))
}

func call[T any](agent *fiber.Agent, accessToken string, body interface{}) (T, error) {
	var out envelope[T]
	if accessToken != "" {
		agent.Set(fiber.HeaderAuthorization, "Bearer "+accessToken)
	}
	if body != nil {
		agent.JSON(body)
	}

	code, raw, errs := agent.Bytes()
	if len(errs) > 0 {
		return out.Data, errors.Join(errs...)
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out.Data, fmt.Errorf("decode response (status %d): %w", code, err)
	}
	if !out.Success {
		return out.Data, fmt.Errorf("status %d: %s", code, out.Message)
	}
	return out.Data, nil
}
