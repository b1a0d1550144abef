package notification

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/forest-guardian/vegetation-mask/internal/properties"
)

type DiscordMessage struct {
	Embeds []DiscordEmbed `json:"embeds"`
}

type DiscordEmbed struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Color       int    `json:"color"`
}

const (
	colorRed   = 16711680
	colorGreen = 65280
)

func SendDiscordErrorNotification(errorMessage string) error {
	return send(properties.DiscordErrorNotificationUrl(), DiscordEmbed{
		Title:       "🚨 Error Notification",
		Description: fmt.Sprintf("Vegetation mask pipeline failed:\n\n%s", errorMessage),
		Color:       colorRed,
	})
}

func SendDiscordSuccessNotification(successMessage string) error {
	return send(properties.DiscordSuccessNotificationUrl(), DiscordEmbed{
		Title:       "✅ Success Notification",
		Description: successMessage,
		Color:       colorGreen,
	})
}

func send(webhookURL string, embed DiscordEmbed) error {
	payload, err := json.Marshal(DiscordMessage{Embeds: []DiscordEmbed{embed}})
	if err != nil {
		return err
	}

	resp, err := http.Post(webhookURL, "application/json", bytes.NewBuffer(payload))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to send Discord notification, status code: %d", resp.StatusCode)
	}

	return nil
}
