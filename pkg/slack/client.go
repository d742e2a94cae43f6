package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/valentinpelus/feedbox/pkg/feedback"
	"github.com/valentinpelus/feedbox/pkg/types"
)

const defaultAPIURL = "https://slack.com/api"

// Slack rejects section text longer than 3000 characters
const maxSectionText = 3000

// Client posts feedback notifications to Slack, through an incoming webhook
// or through chat.postMessage when a bot token and channel are configured
type Client struct {
	webhookURL string
	botToken   string
	channelID  string
	apiURL     string
	client     *http.Client
}

// NewClient creates a new Slack client
func NewClient(webhookURL, botToken, channelID string) *Client {
	return &Client{
		webhookURL: webhookURL,
		botToken:   botToken,
		channelID:  channelID,
		apiURL:     defaultAPIURL,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

// SetAPIURL points the bot API calls at another base URL
func (c *Client) SetAPIURL(apiURL string) {
	c.apiURL = strings.TrimRight(apiURL, "/")
}

// IsConfigured checks if Slack notifications are configured
func (c *Client) IsConfigured() bool {
	return c.webhookURL != "" || c.HasBotToken()
}

// HasBotToken checks if a bot token and channel are configured
func (c *Client) HasBotToken() bool {
	return c.botToken != "" && c.channelID != ""
}

// NotifyFeedback announces a newly submitted record
func (c *Client) NotifyFeedback(ctx context.Context, record types.Record) error {
	if !c.IsConfigured() {
		return nil
	}

	message := buildFeedbackMessage(record)
	if c.HasBotToken() {
		message.Channel = c.channelID
		return c.postMessage(ctx, message)
	}
	return c.postWebhook(ctx, message)
}

func (c *Client) postWebhook(ctx context.Context, message types.SlackMessage) error {
	jsonData, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal Slack message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send to Slack: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("Slack webhook returned status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

func (c *Client) postMessage(ctx context.Context, message types.SlackMessage) error {
	jsonData, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal Slack message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"/chat.postMessage", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Authorization", "Bearer "+c.botToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send to Slack: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	var slackResp types.SlackResponse
	if err := json.Unmarshal(body, &slackResp); err != nil {
		return fmt.Errorf("failed to parse Slack response: %w", err)
	}
	if !slackResp.OK {
		return fmt.Errorf("Slack error: %s", slackResp.Error)
	}
	return nil
}

func buildFeedbackMessage(record types.Record) types.SlackMessage {
	from := record.Name
	if from == "" {
		from = "Anonymous"
	}
	if record.Email != "" {
		from = fmt.Sprintf("%s <%s>", from, record.Email)
	}

	stars := feedback.Stars(record.Rating)
	header := types.PlainText("New feedback " + stars)
	body := types.Markdown(truncateForSlack(record.Message, maxSectionText))

	return types.SlackMessage{
		Text: fmt.Sprintf("New feedback %s (%d/5) from %s", stars, record.Rating, from),
		Blocks: []types.SlackBlock{
			{Type: "header", Text: &header},
			{
				Type: "section",
				Fields: []types.SlackTextObject{
					types.Markdown("*From:*\n" + from),
					types.Markdown(fmt.Sprintf("*Rating:*\n%d/5", record.Rating)),
				},
			},
			{Type: "section", Text: &body},
			{Type: "context", Elements: []types.SlackTextObject{types.Markdown(record.Date)}},
		},
	}
}

func truncateForSlack(text string, maxLen int) string {
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	return string(runes[:maxLen-1]) + "…"
}
