package utils

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const consoleTimeFormat = "2006-01-02 15:04:05"

type DiscordEmbedField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type DiscordEmbed struct {
	Title  string              `json:"title"`
	Color  int                 `json:"color"`
	Fields []DiscordEmbedField `json:"fields"`
}

type DiscordWebhookPayload struct {
	Embeds []DiscordEmbed `json:"embeds"`
}

func getColor(level zerolog.Level) int {
	switch level {
	case zerolog.InfoLevel:
		return 3066993 // Green
	case zerolog.WarnLevel:
		return 15105570 // Orange
	case zerolog.ErrorLevel, zerolog.FatalLevel, zerolog.PanicLevel:
		return 15158332 // Red
	default:
		return 3447003 // Blue
	}
}

// ParseLogLevel maps a configured level name to a zerolog level, falling back
// to info for anything unknown.
func ParseLogLevel(s string) zerolog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRACE":
		return zerolog.TraceLevel
	case "DEBUG":
		return zerolog.DebugLevel
	case "WARN", "WARNING":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// SetupLogger replaces the global logger with a console logger. When
// webhookURL is set, warnings and errors are also posted to that Discord
// webhook.
func SetupLogger(level, webhookURL string) {
	zerolog.ErrorFieldName = "err"

	cw := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: consoleTimeFormat}
	logger := zerolog.New(cw).Level(ParseLogLevel(level)).With().Timestamp().Logger()
	if webhookURL != "" {
		logger = logger.Hook(NewWebhookHook(webhookURL))
	}
	log.Logger = logger
}

// WebhookHook forwards warn and error events to a Discord webhook.
type WebhookHook struct {
	URL    string
	client *http.Client
	// sent receives the outcome of every post; used by tests.
	sent chan error
}

func NewWebhookHook(url string) *WebhookHook {
	return &WebhookHook{URL: url, client: newHTTPClient(10 * time.Second)}
}

func (h *WebhookHook) Run(e *zerolog.Event, level zerolog.Level, message string) {
	if level < zerolog.WarnLevel || level == zerolog.NoLevel || message == "" {
		return
	}
	go func() {
		err := h.send(level, message)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to send log to discord webhook: %v\n", err)
		}
		if h.sent != nil {
			h.sent <- err
		}
	}()
}

func (h *WebhookHook) send(level zerolog.Level, message string) error {
	embed := DiscordEmbed{
		Title: strings.ToUpper(level.String()) + " Log",
		Color: getColor(level),
		Fields: []DiscordEmbedField{
			{Name: "Message", Value: message},
			{Name: "Time", Value: time.Now().UTC().Format(time.RFC3339)},
		},
	}

	jsonPayload, err := json.Marshal(DiscordWebhookPayload{Embeds: []DiscordEmbed{embed}})
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, h.URL, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("failed to send log to discord, status: %s, body: %s", resp.Status, string(body))
	}
	return nil
}
