package logging

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"sifam-shopify-bridge/internal/config"
)

type LoggerService interface {
	Log(value string)
	LogError(value string, err error)
	LogWarning(value string)
	LogSuccess(value string)
}

type Logger struct {
	creds config.TelegramBotConfig
	relay bool
}

type telegramRequest struct {
	ChatId string `json:"chat_id"`
	Text   string `json:"text"`
}

const (
	iconInfo    = "ℹ️"
	iconError   = "❌"
	iconWarning = "⚠️"
	iconSuccess = "✅"
)

// NewLogger always logs to stdout; messages are additionally relayed to
// Telegram when both chat id and bot token are configured.
func NewLogger(creds config.TelegramBotConfig) LoggerService {
	relay := creds.ChatId != "" && creds.Token != ""
	if !relay {
		fmt.Println("[WARNING]: telegram credentials missing, console only")
	}
	return &Logger{creds: creds, relay: relay}
}

func (c *Logger) Log(value string) {
	c.emit(iconInfo, "INFO", value)
}

func (c *Logger) LogError(value string, err error) {
	if err != nil {
		value = fmt.Sprintf("%s: %v", value, err)
	}
	c.emit(iconError, "ERROR", value)
}

func (c *Logger) LogWarning(value string) {
	c.emit(iconWarning, "WARNING", value)
}

func (c *Logger) LogSuccess(value string) {
	c.emit(iconSuccess, "SUCCESS", value)
}

func (c *Logger) emit(icon, level, value string) {
	if c == nil {
		return
	}
	message := formatMessage(icon, level, value)
	fmt.Println(message)
	if c.relay {
		_ = c.sendRequest(message)
	}
}

func formatMessage(icon, level, value string) string {
	v := strings.TrimSpace(value)
	if v == "" {
		v = "-"
	}
	return fmt.Sprintf("%s %s: %s", icon, level, v)
}

func (c *Logger) sendRequest(value string) error {
	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", c.creds.Token)

	reqBody := telegramRequest{
		ChatId: c.creds.ChatId,
		Text:   value,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return err
	}

	resp, err := http.Post(url, "application/json", bytes.NewReader(bodyBytes))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		fmt.Printf("telegram send failed: %s\n%s\n", resp.Status, string(respBody))
		return fmt.Errorf("telegram send failed: %s", resp.Status)
	}
	return nil
}
